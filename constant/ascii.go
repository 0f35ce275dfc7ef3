package constant

// AsciiArtLogo is the banner printed above the root command's help.
const AsciiArtLogo = `              _
 _ __ ___  ___| |
| '__/ _ \/ _ \ |
| | |  __/  __/ |
|_|  \___|\___|_|
`
