package nes

// Palette colors as 0xRRGGBBAA, indexed by the 6 bit color stored in palette RAM.
// Reference: https://www.nesdev.org/wiki/PPU_palettes
var (
	colorsNTSC = [64]uint32{
		0x717171FF, 0x0018D3FF, 0x0704B0FF, 0x4110B0FF, 0x7D0082FF, 0x820030FF, 0x820A00FF, 0x6A1900FF,
		0x443200FF, 0x086700FF, 0x006000FF, 0x005104FF, 0x004052FF, 0x000000FF, 0x000000FF, 0x000000FF,
		0xB3B3B3FF, 0x0C6FF2FF, 0x2051F2FF, 0x6E33FDFF, 0xBE0ECCFF, 0xD10F62FF, 0xD2340FFF, 0xBE5308FF,
		0x997200FF, 0x15A000FF, 0x07A100FF, 0x00A03EFF, 0x00848AFF, 0x000000FF, 0x000000FF, 0x000000FF,
		0xFEFDFEFF, 0x4EB6FEFF, 0x838DFEFF, 0xB577FBFF, 0xF570FDFF, 0xFD61B2FF, 0xFC7B63FF, 0xF19F33FF,
		0xCDBB00FF, 0xA8E80EFF, 0x5ADE42FF, 0x53EF8EFF, 0x23D9DAFF, 0x626262FF, 0x000000FF, 0x000000FF,
		0xFFFFFFFF, 0xB1E2FEFF, 0xC4C6FCFF, 0xE0C0FDFF, 0xF9DBFCFF, 0xFDB1D2FF, 0xF8CDBFFF, 0xFADDA6FF,
		0xF1DF85FF, 0xD1F381FF, 0xBBF6B4FF, 0xF5F5D2FF, 0x79F0F7FF, 0xD4D4D4FF, 0x000000FF, 0x000000FF,
	}
	colorsPAL = [64]uint32{
		0x696969FF, 0x002985FF, 0x0010A5FF, 0x31089FFF, 0x6B0476FF, 0x8F0033FF, 0x950000FF, 0x760700FF,
		0x382200FF, 0x003700FF, 0x004200FF, 0x003F00FF, 0x003A48FF, 0x000000FF, 0x000000FF, 0x000000FF,
		0xBDBDBDFF, 0x006FE0FF, 0x2653FFFF, 0x7E37FFFF, 0xCA23CEFF, 0xF61E7BFF, 0xFA2916FF, 0xCF4300FF,
		0x856200FF, 0x2D7B00FF, 0x008A00FF, 0x008D45FF, 0x038496FF, 0x000000FF, 0x000000FF, 0x000000FF,
		0xFEFFFFFF, 0x35AAFFFF, 0x6585FFFF, 0xA574FFFF, 0xFE78FFFF, 0xFF84C6FF, 0xFF8A7DFF, 0xFFA23CFF,
		0xE7B800FF, 0x93D100FF, 0x47E33BFF, 0x17E894FF, 0x12DFEFFF, 0x4E4E4EFF, 0x000000FF, 0x000000FF,
		0xFEFFFFFF, 0xA9DAFFFF, 0xB8C7FFFF, 0xD6C0FFFF, 0xFEC7FFFF, 0xFFCBE8FF, 0xFFCEC8FF, 0xFFDCB3FF,
		0xFFF0A8FF, 0xE0FAAAFF, 0xBFFCBCFF, 0xADFEDDFF, 0xACFAFFFF, 0xC6C6C6FF, 0x000000FF, 0x000000FF,
	}
)

// grayscale averages the RGB channels, rounding to nearest.
func grayscale(rgba uint32) uint32 {
	sum := (rgba>>24)&0xFF + (rgba>>16)&0xFF + (rgba>>8)&0xFF
	gray := (sum + 1) / 3
	return gray<<24 | gray<<16 | gray<<8 | 0xFF
}
