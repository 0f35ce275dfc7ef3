// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 14

// Playback Clock - these keys drive how the CLI host feeds elapsed time to the player.
const (
	PlayerPreloadMs = "player.preload_ms"
	PlayerStepMs    = "player.step_ms"
	PlayerRealtime  = "player.realtime"
)

// Audio Output - these keys describe the file-backed audio device and track preloading.
const (
	AudioDefaultBlockSize = "audio.default_block_size"
	AudioDeviceRate       = "audio.device_rate"
	AudioDeviceChannels   = "audio.device_channels"
	AudioPreload          = "audio.preload"
)

// Video Output - these keys configure the frame dump target.
const (
	VideoFrameEvery = "video.frame_every"
)

// History Tracking - these keys configure the persistence of playback sessions.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
