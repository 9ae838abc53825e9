package mcp

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/pixellab-mcp/internal/assets"
	"github.com/bobmcallan/pixellab-mcp/internal/common"
	"github.com/bobmcallan/pixellab-mcp/internal/pixellab"
)

const sidescrollerUnsupported = `# Sidescroller Tilesets Not Supported

The PixelLab API does not support sidescroller tilesets. It currently supports:

- Top-down tilesets ("low top-down" or "high top-down" views)
- Wang tiles for seamless terrain transitions

Sidescroller tilesets would need a "side" view, which the API does not implement.
Use create_topdown_tileset instead.`

// Handlers implements every tool against one PixelLab client. Handlers hold
// no per-call state and are safe for concurrent use.
type Handlers struct {
	client *pixellab.Client
	store  *assets.Store
	logger *common.Logger
}

// NewHandlers creates the tool handlers.
func NewHandlers(client *pixellab.Client, store *assets.Store, logger *common.Logger) *Handlers {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Handlers{client: client, store: store, logger: logger}
}

// Register adds every tool to r.
func (h *Handlers) Register(r *Registry) {
	r.Register(createCharacterTool(), h.handleCreateCharacter)
	r.Register(get8DirectionCharacterTool(), h.handleGet8DirectionCharacter)
	r.Register(animateCharacterTool(), h.handleAnimateCharacter)
	r.Register(animateCharacterAltTool(), h.handleAnimateCharacterAlt)
	r.Register(animateWithTextTool(), h.handleAnimateWithText)
	r.Register(animateWithSkeletonTool(), h.handleAnimateWithSkeleton)
	r.Register(estimateSkeletonTool(), h.handleEstimateSkeleton)
	r.Register(createTopdownTilesetTool(), h.handleCreateTopdownTileset)
	r.Register(createSidescrollerTilesetTool(), h.handleCreateSidescrollerTileset)
	r.Register(createIsometricTileTool(), h.handleCreateIsometricTile)
	r.Register(getCharacterTool(), h.handleGetCharacter)
	r.Register(listCharactersTool(), h.handleListCharacters)
	r.Register(getCharacterZipTool(), h.handleGetCharacterZip)
	r.Register(getBackgroundJobTool(), h.handleGetBackgroundJob)
	r.Register(getTilesetStatusTool(), h.handleGetTilesetStatus)
	r.Register(getIsometricTileStatusTool(), h.handleGetIsometricTileStatus)
	r.Register(createImagePixfluxTool(), h.handleCreateImagePixflux)
	r.Register(createImageBitforgeTool(), h.handleCreateImageBitforge)
	r.Register(inpaintPixelArtTool(), h.handleInpaintPixelArt)
	r.Register(rotateCharacterTool(), h.handleRotateCharacter)
	r.Register(getBalanceTool(), h.handleGetBalance)
	r.Register(getAPIDocumentationTool(), h.handleGetAPIDocumentation)
}

// NewToolRegistry builds a registry holding the full tool catalogue.
func NewToolRegistry(client *pixellab.Client, store *assets.Store, logger *common.Logger) *Registry {
	r := NewRegistry(logger)
	NewHandlers(client, store, logger).Register(r)
	return r
}

// --- Request helpers ---

func imageSize(width, height int) map[string]int {
	return map[string]int{"width": width, "height": height}
}

// base64Image wraps an inline PNG argument the way the API expects it.
func base64Image(data string) map[string]string {
	return map[string]string{
		"type":   "base64",
		"base64": assets.StripDataURL(data),
		"format": "png",
	}
}

func idPath(format, id string) string {
	return fmt.Sprintf(format, url.PathEscape(id))
}

// --- Characters ---

func (h *Handlers) handleCreateCharacter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := requireString(request, "description")
	if err != nil {
		return nil, err
	}
	directions, err := optionalIntEnum(request, "n_directions", 4, 4, 8)
	if err != nil {
		return nil, err
	}
	size, err := optionalInt(request, "size", 64, 16, 128)
	if err != nil {
		return nil, err
	}
	return h.createCharacter(ctx, description, directions, size)
}

func (h *Handlers) handleGet8DirectionCharacter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := requireString(request, "description")
	if err != nil {
		return nil, err
	}
	size, err := optionalInt(request, "size", 64, 16, 128)
	if err != nil {
		return nil, err
	}
	return h.createCharacter(ctx, description, 8, size)
}

func (h *Handlers) createCharacter(ctx context.Context, description string, directions, size int) (*mcp.CallToolResult, error) {
	body := map[string]any{
		"description": description,
		"image_size":  imageSize(size, size),
	}
	if directions == 8 {
		body["async_mode"] = true
	}
	label := fmt.Sprintf("%d-direction character creation", directions)

	return h.execute(ctx, remoteCall{
		label:  label,
		method: http.MethodPost,
		path:   fmt.Sprintf("/create-character-with-%d-directions", directions),
		body:   body,
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			characterID := pixellab.FirstString(body, pixellab.CharacterIDFields...)
			if characterID == "" {
				return unconfirmedResult(label, resp)
			}
			var sb strings.Builder
			sb.WriteString("# Character Creation Started\n\n")
			writeField(&sb, "Description", description)
			writeField(&sb, "Directions", strconv.Itoa(directions))
			writeField(&sb, "Size", formatSize(size, size))
			writeField(&sb, "Character ID", characterID)
			writeField(&sb, "Job ID", pixellab.FirstString(body, pixellab.JobIDFields...))
			sb.WriteString("\nProcessing usually takes 3-6 minutes. Use get_character to check progress.\n")
			return textResult(sb.String())
		},
	})
}

func (h *Handlers) handleGetCharacter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	characterID, err := requireString(request, "character_id")
	if err != nil {
		return nil, err
	}
	includePreview, err := optionalBool(request, "include_preview", true)
	if err != nil {
		return nil, err
	}

	return h.execute(ctx, remoteCall{
		label:  "Character retrieval",
		method: http.MethodGet,
		path:   idPath("/characters/%s", characterID),
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			return textResult(formatCharacter(characterID, body, includePreview))
		},
	})
}

func (h *Handlers) handleListCharacters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := optionalInt(request, "limit", 10, 1, 100)
	if err != nil {
		return nil, err
	}
	offset, err := optionalInt(request, "offset", 0, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	return h.execute(ctx, remoteCall{
		label:  "Character listing",
		method: http.MethodGet,
		path:   "/characters",
		opts:   []pixellab.RequestOption{pixellab.WithQuery(query)},
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			return textResult(formatCharacterList(body))
		},
	})
}

// handleGetCharacterZip does not follow redirects: the provider answers
// either with a JSON body naming the URL or with a redirect to it.
func (h *Handlers) handleGetCharacterZip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	characterID, err := requireString(request, "character_id")
	if err != nil {
		return nil, err
	}
	const label = "ZIP download"

	return h.execute(ctx, remoteCall{
		label:  label,
		method: http.MethodGet,
		path:   idPath("/characters/%s/zip", characterID),
		opts:   []pixellab.RequestOption{pixellab.WithoutRedirects()},
		accept: func(resp *pixellab.Response) bool {
			return resp.OK() || (resp.IsRedirect() && resp.Header.Get("Location") != "")
		},
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			downloadURL := pixellab.FirstString(body, pixellab.DownloadURLFields...)
			if downloadURL == "" {
				downloadURL = resp.Header.Get("Location")
			}
			if downloadURL == "" {
				downloadURL = resp.Header.Get("Content-Location")
			}
			if downloadURL == "" {
				return unconfirmedResult(label, resp)
			}
			var sb strings.Builder
			sb.WriteString("# Character ZIP Ready\n\n")
			writeField(&sb, "Character ID", characterID)
			writeField(&sb, "Download", downloadURL)
			sb.WriteString("\nThe ZIP includes every directional sprite and animation.\n")
			return textResult(sb.String())
		},
	})
}

func (h *Handlers) handleRotateCharacter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := requireString(request, "source_image")
	if err != nil {
		return nil, err
	}
	guidance, err := optionalNumber(request, "image_guidance_scale", 3, 1, 20)
	if err != nil {
		return nil, err
	}
	viewChange, err := optionalNumber(request, "view_change", 30, -180, 180)
	if err != nil {
		return nil, err
	}
	directionChange, err := optionalNumber(request, "direction_change", 45, -180, 180)
	if err != nil {
		return nil, err
	}
	fromView, err := optionalEnum(request, "from_view", "side", rotateViewValues...)
	if err != nil {
		return nil, err
	}
	toView, err := optionalEnum(request, "to_view", "top-down", rotateViewValues...)
	if err != nil {
		return nil, err
	}
	width, err := optionalInt(request, "width", 64, 16, 200)
	if err != nil {
		return nil, err
	}
	height, err := optionalInt(request, "height", 64, 16, 200)
	if err != nil {
		return nil, err
	}

	return h.execute(ctx, remoteCall{
		label:  "Character rotation",
		method: http.MethodPost,
		path:   "/rotate",
		body: map[string]any{
			"from_image":           base64Image(source),
			"image_guidance_scale": guidance,
			"view_change":          viewChange,
			"direction_change":     directionChange,
			"from_view":            fromView,
			"to_view":              toView,
			"image_size":           imageSize(width, height),
		},
		render: h.renderImage(imageSummary{
			title: "Character Rotation",
			name:  fmt.Sprintf("rotated %s to %s", fromView, toView),
			fields: [][2]string{
				{"View Change", formatNumber(viewChange) + " degrees"},
				{"Direction Change", formatNumber(directionChange) + " degrees"},
				{"From View", fromView},
				{"To View", toView},
				{"Size", formatSize(width, height)},
			},
		}),
	})
}

// --- Animation ---

func (h *Handlers) handleAnimateCharacter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	characterID, err := requireString(request, "character_id")
	if err != nil {
		return nil, err
	}
	animation, err := requireString(request, "animation")
	if err != nil {
		return nil, err
	}
	template := pixellab.TemplateForAnimation(animation)

	return h.execute(ctx, remoteCall{
		label:  "Animation",
		method: http.MethodPost,
		path:   "/characters/animations",
		body: map[string]any{
			"character_id":          characterID,
			"template_animation_id": template,
			"action_description":    animation + " animation",
			"async_mode":            true,
		},
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			var sb strings.Builder
			sb.WriteString("# Animation Started\n\n")
			writeField(&sb, "Character ID", characterID)
			writeField(&sb, "Animation", animation)
			writeField(&sb, "Template", template)
			writeField(&sb, "Job ID", pixellab.FirstString(body, pixellab.JobIDFields...))
			sb.WriteString("\nAnimations are usually ready in 2-4 minutes. Use get_character to check progress.\n")
			return textResult(sb.String())
		},
	})
}

func (h *Handlers) handleAnimateCharacterAlt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	characterID, err := requireString(request, "character_id")
	if err != nil {
		return nil, err
	}
	animation, err := optionalString(request, "animation", "walking")
	if err != nil {
		return nil, err
	}
	animationName, err := optionalString(request, "animation_name", "")
	if err != nil {
		return nil, err
	}
	actionDescription, err := optionalString(request, "action_description", "")
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"character_id":          characterID,
		"template_animation_id": animation,
	}
	if animationName != "" {
		body["animation_name"] = animationName
	}
	if action := orDefault(animationName, actionDescription); action != "" {
		body["action_description"] = action
	}

	return h.execute(ctx, remoteCall{
		label:  "Alternative animation",
		method: http.MethodPost,
		path:   "/animate-character",
		body:   body,
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			var sb strings.Builder
			sb.WriteString("# Alternative Animation Started\n\n")
			writeField(&sb, "Character ID", characterID)
			writeField(&sb, "Animation", animation)
			writeField(&sb, "Name", animationName)
			writeField(&sb, "Job ID", pixellab.FirstString(body, pixellab.JobIDFields...))
			sb.WriteString("\nAnimations are usually ready in 3-5 minutes. Use get_character to check progress.\n")
			return textResult(sb.String())
		},
	})
}

func (h *Handlers) handleAnimateWithText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := requireString(request, "description")
	if err != nil {
		return nil, err
	}
	action, err := requireString(request, "action")
	if err != nil {
		return nil, err
	}
	reference, err := requireString(request, "reference_image")
	if err != nil {
		return nil, err
	}
	textGuidance, err := optionalNumber(request, "text_guidance_scale", 3, 1, 20)
	if err != nil {
		return nil, err
	}
	imageGuidance, err := optionalNumber(request, "image_guidance_scale", 1, 1, 20)
	if err != nil {
		return nil, err
	}
	frames, err := optionalInt(request, "n_frames", 4, 2, 20)
	if err != nil {
		return nil, err
	}

	return h.execute(ctx, remoteCall{
		label:  "Text animation",
		method: http.MethodPost,
		path:   "/animate-with-text",
		body: map[string]any{
			"image_size":           imageSize(64, 64),
			"description":          description,
			"action":               action,
			"text_guidance_scale":  textGuidance,
			"image_guidance_scale": imageGuidance,
			"n_frames":             frames,
			"reference_image": map[string]string{
				"type":         "character_id",
				"character_id": reference,
			},
		},
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			var sb strings.Builder
			sb.WriteString("# Text Animation Started\n\n")
			writeField(&sb, "Character", description)
			writeField(&sb, "Action", action)
			writeField(&sb, "Reference", reference)
			writeField(&sb, "Frames", strconv.Itoa(frames))
			writeField(&sb, "Job ID", pixellab.FirstString(body, pixellab.JobIDFields...))
			sb.WriteString("\nProcessing usually takes 4-6 minutes.\n")
			return textResult(sb.String())
		},
	})
}

func (h *Handlers) handleAnimateWithSkeleton(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference, err := requireString(request, "reference_image")
	if err != nil {
		return nil, err
	}
	keypoints, err := optionalArray(request, "skeleton_keypoints")
	if err != nil {
		return nil, err
	}
	guidance, err := optionalNumber(request, "image_guidance_scale", 4, 1, 20)
	if err != nil {
		return nil, err
	}
	view, err := optionalEnum(request, "view", "side", skeletonViewValues...)
	if err != nil {
		return nil, err
	}
	direction, err := optionalEnum(request, "direction", "south", directionValues...)
	if err != nil {
		return nil, err
	}
	isometric, err := optionalBool(request, "isometric", false)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"reference_image":      base64Image(reference),
		"image_guidance_scale": guidance,
		"view":                 view,
		"direction":            direction,
	}
	keypointSource := "estimated remotely"
	if len(keypoints) > 0 {
		body["skeleton_keypoints"] = keypoints
		keypointSource = fmt.Sprintf("%d provided", len(keypoints))
	}
	if isometric {
		body["isometric"] = true
	}

	return h.execute(ctx, remoteCall{
		label:  "Skeleton animation",
		method: http.MethodPost,
		path:   "/animate-with-skeleton",
		body:   body,
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			var sb strings.Builder
			sb.WriteString("# Skeleton Animation Started\n\n")
			writeField(&sb, "Keypoints", keypointSource)
			writeField(&sb, "View", view)
			writeField(&sb, "Direction", direction)
			writeField(&sb, "Isometric", strconv.FormatBool(isometric))
			writeField(&sb, "Job ID", pixellab.FirstString(body, pixellab.JobIDFields...))
			sb.WriteString("\nProcessing usually takes 4-6 minutes.\n")
			return textResult(sb.String())
		},
	})
}

func (h *Handlers) handleEstimateSkeleton(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	image, err := requireString(request, "image")
	if err != nil {
		return nil, err
	}

	return h.execute(ctx, remoteCall{
		label:  "Skeleton estimation",
		method: http.MethodPost,
		path:   "/estimate-skeleton",
		body:   map[string]any{"image": base64Image(image)},
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			v, _ := pixellab.First(body, pixellab.KeypointFields...)
			points, _ := v.([]any)
			return textResult(formatKeypoints(points))
		},
	})
}

// --- Tiles ---

func (h *Handlers) handleCreateTopdownTileset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lower, err := requireString(request, "lower")
	if err != nil {
		return nil, err
	}
	upper, err := requireString(request, "upper")
	if err != nil {
		return nil, err
	}
	baseTileID, err := optionalString(request, "lower_base_tile_id", "")
	if err != nil {
		return nil, err
	}
	transition, err := optionalString(request, "transition_description", "")
	if err != nil {
		return nil, err
	}
	tileSize, err := optionalIntEnum(request, "tile_size", 16, 16, 32)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"lower_description":      lower,
		"upper_description":      upper,
		"transition_description": transition,
		"tile_size":              imageSize(tileSize, tileSize),
	}
	if baseTileID != "" {
		body["lower_base_tile_id"] = baseTileID
	}
	const label = "Tileset creation"

	return h.execute(ctx, remoteCall{
		label:  label,
		method: http.MethodPost,
		path:   "/tilesets",
		body:   body,
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			tilesetID := pixellab.FirstString(body, pixellab.TilesetIDFields...)
			if tilesetID == "" {
				return unconfirmedResult(label, resp)
			}
			var sb strings.Builder
			sb.WriteString("# Top-Down Tileset Creation Started\n\n")
			writeField(&sb, "Lower", lower)
			writeField(&sb, "Upper", upper)
			writeField(&sb, "Transition", transition)
			writeField(&sb, "Tile Size", formatSize(tileSize, tileSize))
			writeField(&sb, "Tileset ID", tilesetID)
			sb.WriteString("\nProcessing usually takes 3-5 minutes. Use get_tileset_status to check completion.\n")
			return textResult(sb.String())
		},
	})
}

// handleCreateSidescrollerTileset never calls the API.
func (h *Handlers) handleCreateSidescrollerTileset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(sidescrollerUnsupported), nil
}

func (h *Handlers) handleCreateIsometricTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := requireString(request, "description")
	if err != nil {
		return nil, err
	}
	size, err := optionalNumber(request, "size", 32, math.Inf(-1), math.Inf(1))
	if err != nil {
		return nil, err
	}
	const label = "Isometric tile creation"

	return h.execute(ctx, remoteCall{
		label:  label,
		method: http.MethodPost,
		path:   "/create-isometric-tile",
		body: map[string]any{
			"description":          description,
			"image_size":           map[string]float64{"width": size, "height": size},
			"isometric_tile_size":  size,
			"isometric_tile_shape": "block",
		},
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			tileID := pixellab.FirstString(body, pixellab.TileIDFields...)
			jobID := pixellab.FirstString(body, pixellab.JobIDFields...)
			if tileID == "" && jobID == "" {
				return unconfirmedResult(label, resp)
			}
			var sb strings.Builder
			sb.WriteString("# Isometric Tile Creation Started\n\n")
			writeField(&sb, "Description", description)
			writeField(&sb, "Size", formatNumber(size)+"px")
			writeField(&sb, "Tile ID", tileID)
			writeField(&sb, "Job ID", jobID)
			sb.WriteString("\nProcessing usually takes 2-3 minutes. Use get_isometric_tile_status to check completion.\n")
			return textResult(sb.String())
		},
	})
}

func (h *Handlers) handleGetTilesetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tilesetID, err := requireString(request, "tileset_id")
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, remoteCall{
		label:  "Tileset status check",
		method: http.MethodGet,
		path:   idPath("/tilesets/%s", tilesetID),
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			return textResult(formatResourceStatus("Tileset", tilesetID, resp, body))
		},
	})
}

func (h *Handlers) handleGetIsometricTileStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tileID, err := requireString(request, "tile_id")
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, remoteCall{
		label:  "Isometric tile status check",
		method: http.MethodGet,
		path:   idPath("/isometric-tiles/%s", tileID),
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			return textResult(formatResourceStatus("Isometric Tile", tileID, resp, body))
		},
	})
}

// --- Images ---

type imageSummary struct {
	title  string
	name   string // slug source for the saved file
	fields [][2]string
}

// renderImage saves inline image data from the response. A failed save is
// still a successful tool call: the image was generated and billed.
func (h *Handlers) renderImage(s imageSummary) func(*pixellab.Response, any) *mcp.CallToolResult {
	return func(resp *pixellab.Response, body any) *mcp.CallToolResult {
		var sb strings.Builder
		for _, f := range s.fields {
			writeField(&sb, f[0], f[1])
		}

		data := pixellab.FirstString(body, pixellab.ImageFields...)
		if data == "" {
			header := fmt.Sprintf("# %s Started\n\n", s.title)
			writeField(&sb, "Job ID", pixellab.FirstString(body, pixellab.JobIDFields...))
			if keys := pixellab.Keys(body); len(keys) > 0 {
				writeField(&sb, "Response Keys", strings.Join(keys, ", "))
			}
			sb.WriteString("\nNo inline image was returned; the request was accepted for processing.\n")
			return textResult(header + sb.String())
		}

		saved, err := h.store.SaveBase64(s.name, data)
		if err != nil {
			h.logger.Warn().Str("name", s.name).Err(err).Msg("generated image could not be saved")
			sb.WriteString("\n## Not Saved\n\n")
			fmt.Fprintf(&sb, "The image was generated but saving it failed: %v\n", err)
			return textResult(fmt.Sprintf("# %s Generated\n\n", s.title) + sb.String())
		}
		formatSavedImage(&sb, saved)
		return textResult(fmt.Sprintf("# %s Generated and Saved\n\n", s.title) + sb.String())
	}
}

func (h *Handlers) handleCreateImagePixflux(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := requireString(request, "description")
	if err != nil {
		return nil, err
	}
	negative, err := optionalString(request, "negative_description", "")
	if err != nil {
		return nil, err
	}
	width, err := optionalInt(request, "width", 64, 16, 400)
	if err != nil {
		return nil, err
	}
	height, err := optionalInt(request, "height", 64, 16, 400)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"description":         description,
		"image_size":          imageSize(width, height),
		"text_guidance_scale": 8.0,
	}
	if negative != "" {
		body["negative_description"] = negative
	}

	return h.execute(ctx, remoteCall{
		label:  "Pixflux image generation",
		method: http.MethodPost,
		path:   "/create-image-pixflux",
		body:   body,
		render: h.renderImage(imageSummary{
			title: "Pixflux Image",
			name:  description,
			fields: [][2]string{
				{"Description", description},
				{"Size", formatSize(width, height)},
				{"Model", "Pixflux"},
			},
		}),
	})
}

func (h *Handlers) handleCreateImageBitforge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := requireString(request, "description")
	if err != nil {
		return nil, err
	}
	negative, err := optionalString(request, "negative_description", "")
	if err != nil {
		return nil, err
	}
	width, err := optionalInt(request, "width", 64, 16, 200)
	if err != nil {
		return nil, err
	}
	height, err := optionalInt(request, "height", 64, 16, 200)
	if err != nil {
		return nil, err
	}
	styleStrength, err := optionalNumber(request, "style_strength", 0, 0, 100)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"description":         description,
		"image_size":          imageSize(width, height),
		"text_guidance_scale": 8.0,
		"style_strength":      styleStrength,
	}
	if negative != "" {
		body["negative_description"] = negative
	}

	return h.execute(ctx, remoteCall{
		label:  "Bitforge image generation",
		method: http.MethodPost,
		path:   "/create-image-bitforge",
		body:   body,
		render: h.renderImage(imageSummary{
			title: "Bitforge Image",
			name:  description,
			fields: [][2]string{
				{"Description", description},
				{"Size", formatSize(width, height)},
				{"Model", "Bitforge"},
				{"Style Strength", formatNumber(styleStrength)},
			},
		}),
	})
}

func (h *Handlers) handleInpaintPixelArt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := requireString(request, "description")
	if err != nil {
		return nil, err
	}
	source, err := requireString(request, "source_image")
	if err != nil {
		return nil, err
	}
	mask, err := requireString(request, "mask_image")
	if err != nil {
		return nil, err
	}
	negative, err := optionalString(request, "negative_description", "")
	if err != nil {
		return nil, err
	}
	width, err := optionalInt(request, "width", 64, 16, 400)
	if err != nil {
		return nil, err
	}
	height, err := optionalInt(request, "height", 64, 16, 400)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"description":         description,
		"image_size":          imageSize(width, height),
		"text_guidance_scale": 3.0,
		"inpainting_image":    base64Image(source),
		"mask_image":          base64Image(mask),
	}
	if negative != "" {
		body["negative_description"] = negative
	}

	return h.execute(ctx, remoteCall{
		label:  "Inpainting",
		method: http.MethodPost,
		path:   "/inpaint",
		body:   body,
		render: h.renderImage(imageSummary{
			title: "Inpainting",
			name:  "inpaint " + description,
			fields: [][2]string{
				{"Description", description},
				{"Size", formatSize(width, height)},
			},
		}),
	})
}

// --- Account ---

func (h *Handlers) handleGetBackgroundJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, err := requireString(request, "job_id")
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, remoteCall{
		label:  "Job status check",
		method: http.MethodGet,
		path:   idPath("/background-jobs/%s", jobID),
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			return textResult(formatBackgroundJob(jobID, body))
		},
	})
}

func (h *Handlers) handleGetBalance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.execute(ctx, remoteCall{
		label:  "Balance check",
		method: http.MethodGet,
		path:   "/balance",
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			text, ok := formatBalance(body)
			if !ok {
				text += fmt.Sprintf("```json\n%s\n```\n", resp.Pretty())
			}
			return textResult(text)
		},
	})
}

func (h *Handlers) handleGetAPIDocumentation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.execute(ctx, remoteCall{
		label:  "API documentation",
		method: http.MethodGet,
		path:   "/llms.txt",
		opts:   []pixellab.RequestOption{pixellab.WithAccept("text/plain")},
		render: func(resp *pixellab.Response, body any) *mcp.CallToolResult {
			return textResult("# PixelLab API Documentation\n\n" + strings.TrimSpace(resp.Text()) + "\n")
		},
	})
}
