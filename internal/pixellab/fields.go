package pixellab

// Candidate field lists, in priority order. The provider's response shapes
// vary between endpoints and API versions; each list names every location a
// logical value has been observed at.
var (
	CharacterIDFields = []Accessor{
		Key("character_id"),
		Key("id"),
		Key("data", "character_id"),
		Key("data", "id"),
	}

	JobIDFields = []Accessor{
		Key("background_job_id"),
		Key("job_id"),
		Key("data", "background_job_id"),
		Key("data", "job_id"),
	}

	TilesetIDFields = []Accessor{
		Key("tileset_id"),
		Key("data", "tileset_id"),
	}

	TileIDFields = []Accessor{
		Key("tile_id"),
		Key("data", "tile_id"),
		Key("id"),
	}

	StatusFields = []Accessor{
		Key("status"),
		Key("data", "status"),
	}

	DownloadURLFields = []Accessor{
		Key("download_url"),
		Key("zip_url"),
		Key("url"),
		Key("data", "download_url"),
		Key("data", "url"),
	}

	// ImageFields locate inline base64 image data, either as a bare string or
	// as a {"type": "base64", "base64": "..."} object. The last entry matches
	// a body that is itself a JSON string.
	ImageFields = []Accessor{
		Key("image", "base64"),
		Key("image"),
		Key("images", 0, "base64"),
		Key("images", 0),
		Key("base64"),
		Key("data", "image", "base64"),
		Key("data", "image"),
		Key(),
	}

	KeypointFields = []Accessor{
		Key("skeleton_keypoints"),
		Key("keypoints"),
		Key("data", "skeleton_keypoints"),
		Key("data", "keypoints"),
	}

	MessageFields = []Accessor{
		Key("message"),
		Key("detail"),
		Key("error", "message"),
		Key("error"),
	}

	NameFields = []Accessor{
		Key("name"),
		Key("description"),
		Key("prompt"),
	}

	RotationURLFields = []Accessor{
		Key("rotation_urls"),
		Key("data", "rotation_urls"),
	}

	AnimationFields = []Accessor{
		Key("animations"),
		Key("data", "animations"),
	}

	CharacterListFields = []Accessor{
		Key("characters"),
		Key("data", "characters"),
		Key("data"),
	}

	CreditsFields = []Accessor{
		Key("credits"),
		Key("balance"),
		Key("usd"),
	}

	UsageFields = []Accessor{
		Key("usage"),
	}

	LimitsFields = []Accessor{
		Key("limits"),
		Key("subscription"),
	}

	JobErrorFields = []Accessor{
		Key("error"),
		Key("last_response", "error"),
		Key("message"),
	}
)
