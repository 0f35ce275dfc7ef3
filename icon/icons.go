package icon

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Question
	Play
	Pause
	Finished
	Audio
	Video
	Movie
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(๑˃ᴗ˂)ﻭ",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "✗",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(￣ρ￣)..zzZZ",
		squares: "🟦",
	},
	Question: {
		emoji:   "🤨",
		nerd:    "",
		plain:   "?",
		kaomoji: "(？_？)",
		squares: "🟨",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ง •̀_•́)ง",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－_－) zzZ",
		squares: "🟨",
	},
	Finished: {
		emoji:   "🏁",
		nerd:    "",
		plain:   "#",
		kaomoji: "ヽ(•‿•)ノ",
		squares: "⬛",
	},
	Audio: {
		emoji:   "🔊",
		nerd:    "",
		plain:   "A",
		kaomoji: "♪(´▽｀)",
		squares: "🟪",
	},
	Video: {
		emoji:   "🎞️",
		nerd:    "",
		plain:   "V",
		kaomoji: "(◕‿◕)",
		squares: "🟧",
	},
	Movie: {
		emoji:   "🎬",
		nerd:    "",
		plain:   "*",
		kaomoji: "(⌐■_■)",
		squares: "🟫",
	},
}
