package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/pixellab-mcp/internal/pixellab"
)

// Shared option sets.
var (
	skeletonViewValues = []string{"side", "top-down", "low top-down", "high top-down"}
	rotateViewValues   = []string{"side", "top-down", "low top-down", "high top-down", "perspective"}
	directionValues    = []string{"south", "south-east", "east", "north-east", "north", "north-west", "west", "south-west"}
)

// intEnum declares a numeric enum on a number property.
func intEnum(values ...int) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["enum"] = values
	}
}

func remoteTool(name string, readOnly bool, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts,
		mcp.WithReadOnlyHintAnnotation(readOnly),
		mcp.WithOpenWorldHintAnnotation(true),
	)
	return mcp.NewTool(name, opts...)
}

// --- Characters ---

func createCharacterTool() mcp.Tool {
	return remoteTool("create_character", false,
		mcp.WithDescription("Create a pixel-art character with 4 or 8 directional views. Generation runs in the background; use get_character to check progress."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Description of the character (e.g., 'a cute robot knight')")),
		mcp.WithNumber("n_directions", mcp.Description("Number of directional views, 4 or 8 (default: 4)"), intEnum(4, 8), mcp.DefaultNumber(4)),
		mcp.WithNumber("size", mcp.Description("Canvas size in pixels (default: 64, range 16-128)"), mcp.Min(16), mcp.Max(128), mcp.DefaultNumber(64)),
	)
}

func get8DirectionCharacterTool() mcp.Tool {
	return remoteTool("get_8direction_character", false,
		mcp.WithDescription("Create a character with all 8 directional views for top-down movement."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Description of the character")),
		mcp.WithNumber("size", mcp.Description("Canvas size in pixels (default: 64, range 16-128)"), mcp.Min(16), mcp.Max(128), mcp.DefaultNumber(64)),
	)
}

func getCharacterTool() mcp.Tool {
	return remoteTool("get_character", true,
		mcp.WithDescription("Get a character's status, rotation download links and animations."),
		mcp.WithString("character_id", mcp.Required(), mcp.Description("Character ID returned by create_character")),
		mcp.WithBoolean("include_preview", mcp.Description("Include rotation image links (default: true)"), mcp.DefaultBool(true)),
	)
}

func listCharactersTool() mcp.Tool {
	return remoteTool("list_characters", true,
		mcp.WithDescription("List the characters in your PixelLab library."),
		mcp.WithNumber("limit", mcp.Description("Maximum characters to return (default: 10, range 1-100)"), mcp.Min(1), mcp.Max(100), mcp.DefaultNumber(10)),
		mcp.WithNumber("offset", mcp.Description("Number of characters to skip (default: 0)"), mcp.Min(0), mcp.DefaultNumber(0)),
	)
}

func getCharacterZipTool() mcp.Tool {
	return remoteTool("get_character_zip", true,
		mcp.WithDescription("Get a download link for a ZIP of all of a character's sprites and animations."),
		mcp.WithString("character_id", mcp.Required(), mcp.Description("Character ID")),
	)
}

func rotateCharacterTool() mcp.Tool {
	return remoteTool("rotate_character", false,
		mcp.WithDescription("Rotate a character image to a different camera view or facing direction. The rotated image is saved locally when returned inline."),
		mcp.WithString("source_image", mcp.Required(), mcp.Description("Base64-encoded PNG of the character")),
		mcp.WithNumber("image_guidance_scale", mcp.Description("How closely to follow the source image (default: 3, range 1-20)"), mcp.Min(1), mcp.Max(20), mcp.DefaultNumber(3)),
		mcp.WithNumber("view_change", mcp.Description("Camera tilt change in degrees (default: 30)"), mcp.Min(-180), mcp.Max(180), mcp.DefaultNumber(30)),
		mcp.WithNumber("direction_change", mcp.Description("Facing change in degrees (default: 45)"), mcp.Min(-180), mcp.Max(180), mcp.DefaultNumber(45)),
		mcp.WithString("from_view", mcp.Description("Current view (default: side)"), mcp.Enum(rotateViewValues...), mcp.DefaultString("side")),
		mcp.WithString("to_view", mcp.Description("Target view (default: top-down)"), mcp.Enum(rotateViewValues...), mcp.DefaultString("top-down")),
		mcp.WithNumber("width", mcp.Description("Output width in pixels (default: 64, range 16-200)"), mcp.Min(16), mcp.Max(200), mcp.DefaultNumber(64)),
		mcp.WithNumber("height", mcp.Description("Output height in pixels (default: 64, range 16-200)"), mcp.Min(16), mcp.Max(200), mcp.DefaultNumber(64)),
	)
}

// --- Animation ---

func animateCharacterTool() mcp.Tool {
	return remoteTool("animate_character", false,
		mcp.WithDescription(fmt.Sprintf(
			"Add a template animation to an existing character. Free-text names such as 'walking', 'punch' or 'jump' are mapped to the closest template: %s.",
			strings.Join(pixellab.Templates(), ", "))),
		mcp.WithString("character_id", mcp.Required(), mcp.Description("Character ID")),
		mcp.WithString("animation", mcp.Required(), mcp.Description("Animation name (e.g., 'walking', 'attack', 'death')")),
	)
}

func animateCharacterAltTool() mcp.Tool {
	return remoteTool("animate_character_alt", false,
		mcp.WithDescription("Animate a character through the alternative animation endpoint, passing the animation name through unchanged."),
		mcp.WithString("character_id", mcp.Required(), mcp.Description("Character ID")),
		mcp.WithString("animation", mcp.Description("Template animation id (default: walking)"), mcp.DefaultString("walking")),
		mcp.WithString("animation_name", mcp.Description("Display name for the animation")),
		mcp.WithString("action_description", mcp.Description("Description of the action, used when animation_name is not set")),
	)
}

func animateWithTextTool() mcp.Tool {
	return remoteTool("animate_with_text", false,
		mcp.WithDescription("Generate an animation for a character from a text description of the action."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Description of the character")),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to animate (e.g., 'swinging a sword')")),
		mcp.WithString("reference_image", mcp.Required(), mcp.Description("Character ID to use as the reference")),
		mcp.WithNumber("text_guidance_scale", mcp.Description("How closely to follow the text (default: 3, range 1-20)"), mcp.Min(1), mcp.Max(20), mcp.DefaultNumber(3)),
		mcp.WithNumber("image_guidance_scale", mcp.Description("How closely to follow the reference (default: 1, range 1-20)"), mcp.Min(1), mcp.Max(20), mcp.DefaultNumber(1)),
		mcp.WithNumber("n_frames", mcp.Description("Number of frames (default: 4, range 2-20)"), mcp.Min(2), mcp.Max(20), mcp.DefaultNumber(4)),
	)
}

func animateWithSkeletonTool() mcp.Tool {
	return remoteTool("animate_with_skeleton", false,
		mcp.WithDescription("Generate an animation frame from a reference image and skeleton keypoints."),
		mcp.WithString("reference_image", mcp.Required(), mcp.Description("Base64-encoded PNG reference image")),
		mcp.WithArray("skeleton_keypoints", mcp.Description("Keypoints as returned by estimate_skeleton; estimated remotely when omitted"),
			mcp.Items(map[string]any{})),
		mcp.WithNumber("image_guidance_scale", mcp.Description("How closely to follow the reference (default: 4, range 1-20)"), mcp.Min(1), mcp.Max(20), mcp.DefaultNumber(4)),
		mcp.WithString("view", mcp.Description("Camera view (default: side)"), mcp.Enum(skeletonViewValues...), mcp.DefaultString("side")),
		mcp.WithString("direction", mcp.Description("Facing direction (default: south)"), mcp.Enum(directionValues...), mcp.DefaultString("south")),
		mcp.WithBoolean("isometric", mcp.Description("Render isometrically (default: false)"), mcp.DefaultBool(false)),
	)
}

func estimateSkeletonTool() mcp.Tool {
	return remoteTool("estimate_skeleton", true,
		mcp.WithDescription("Estimate skeleton keypoints for a character image, for use with animate_with_skeleton."),
		mcp.WithString("image", mcp.Required(), mcp.Description("Base64-encoded PNG image")),
	)
}

// --- Tiles ---

func createTopdownTilesetTool() mcp.Tool {
	return remoteTool("create_topdown_tileset", false,
		mcp.WithDescription("Create a top-down Wang tileset transitioning between two terrains."),
		mcp.WithString("lower", mcp.Required(), mcp.Description("Lower terrain (e.g., 'ocean')")),
		mcp.WithString("upper", mcp.Required(), mcp.Description("Upper terrain (e.g., 'sand')")),
		mcp.WithString("lower_base_tile_id", mcp.Description("Tile ID to reuse as the lower terrain")),
		mcp.WithString("transition_description", mcp.Description("Description of the transition between terrains")),
		mcp.WithNumber("tile_size", mcp.Description("Tile size in pixels, 16 or 32 (default: 16)"), intEnum(16, 32), mcp.DefaultNumber(16)),
	)
}

func createSidescrollerTilesetTool() mcp.Tool {
	return remoteTool("create_sidescroller_tileset", true,
		mcp.WithDescription("Sidescroller tilesets are not supported by the PixelLab API; returns guidance instead of calling it."),
		mcp.WithString("lower", mcp.Required(), mcp.Description("Platform material")),
		mcp.WithString("transition", mcp.Required(), mcp.Description("Surface layer")),
		mcp.WithString("base_tile_id", mcp.Description("Tile ID to reuse")),
	)
}

func createIsometricTileTool() mcp.Tool {
	return remoteTool("create_isometric_tile", false,
		mcp.WithDescription("Create an isometric block tile."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Description of the tile (e.g., 'grass block')")),
		mcp.WithNumber("size", mcp.Description("Tile size in pixels (default: 32)"), mcp.DefaultNumber(32)),
	)
}

func getTilesetStatusTool() mcp.Tool {
	return remoteTool("get_tileset_status", true,
		mcp.WithDescription("Check whether a tileset has finished generating."),
		mcp.WithString("tileset_id", mcp.Required(), mcp.Description("Tileset ID")),
	)
}

func getIsometricTileStatusTool() mcp.Tool {
	return remoteTool("get_isometric_tile_status", true,
		mcp.WithDescription("Check whether an isometric tile has finished generating."),
		mcp.WithString("tile_id", mcp.Required(), mcp.Description("Isometric tile ID")),
	)
}

// --- Images ---

func createImagePixfluxTool() mcp.Tool {
	return remoteTool("create_image_pixflux", false,
		mcp.WithDescription("Generate a pixel-art image with the Pixflux model. The image is saved as PNG in the assets directory."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Description of the image")),
		mcp.WithString("negative_description", mcp.Description("What to avoid in the image")),
		mcp.WithNumber("width", mcp.Description("Width in pixels (default: 64, range 16-400)"), mcp.Min(16), mcp.Max(400), mcp.DefaultNumber(64)),
		mcp.WithNumber("height", mcp.Description("Height in pixels (default: 64, range 16-400)"), mcp.Min(16), mcp.Max(400), mcp.DefaultNumber(64)),
	)
}

func createImageBitforgeTool() mcp.Tool {
	return remoteTool("create_image_bitforge", false,
		mcp.WithDescription("Generate a pixel-art image with the Bitforge model. The image is saved as PNG in the assets directory when returned inline."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Description of the image")),
		mcp.WithString("negative_description", mcp.Description("What to avoid in the image")),
		mcp.WithNumber("width", mcp.Description("Width in pixels (default: 64, range 16-200)"), mcp.Min(16), mcp.Max(200), mcp.DefaultNumber(64)),
		mcp.WithNumber("height", mcp.Description("Height in pixels (default: 64, range 16-200)"), mcp.Min(16), mcp.Max(200), mcp.DefaultNumber(64)),
		mcp.WithNumber("style_strength", mcp.Description("Style strength percentage (default: 0, range 0-100)"), mcp.Min(0), mcp.Max(100), mcp.DefaultNumber(0)),
	)
}

func inpaintPixelArtTool() mcp.Tool {
	return remoteTool("inpaint_pixel_art", false,
		mcp.WithDescription("Edit part of an existing pixel-art image. White mask pixels are regenerated."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Description of the content to paint")),
		mcp.WithString("source_image", mcp.Required(), mcp.Description("Base64-encoded PNG to edit")),
		mcp.WithString("mask_image", mcp.Required(), mcp.Description("Base64-encoded PNG mask")),
		mcp.WithString("negative_description", mcp.Description("What to avoid")),
		mcp.WithNumber("width", mcp.Description("Width in pixels (default: 64, range 16-400)"), mcp.Min(16), mcp.Max(400), mcp.DefaultNumber(64)),
		mcp.WithNumber("height", mcp.Description("Height in pixels (default: 64, range 16-400)"), mcp.Min(16), mcp.Max(400), mcp.DefaultNumber(64)),
	)
}

// --- Account ---

func getBackgroundJobTool() mcp.Tool {
	return remoteTool("get_background_job", true,
		mcp.WithDescription("Check the status of a background job."),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("Background job ID")),
	)
}

func getBalanceTool() mcp.Tool {
	return remoteTool("get_balance", true,
		mcp.WithDescription("Get the account's remaining credits and usage."),
	)
}

func getAPIDocumentationTool() mcp.Tool {
	return remoteTool("get_api_documentation", true,
		mcp.WithDescription("Fetch the PixelLab API reference formatted for language models."),
	)
}
