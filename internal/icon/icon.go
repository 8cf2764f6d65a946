// Package icon renders the tray icon: a sun whose shade tracks the
// current dim level, from deep amber at the floor to full gold at
// 100%.
package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	colorDim    = color.NRGBA{R: 0x8A, G: 0x5A, B: 0x10, A: 0xFF} // dark amber
	colorBright = color.NRGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF} // full gold
)

// Generate returns ICO bytes (16+32 px) for a brightness level 0-100.
func Generate(level int) []byte {
	if level < 0 {
		level = 0
	} else if level > 100 {
		level = 100
	}

	t := float64(level) / 100.0
	c := shade(t)

	sizes := []int{16, 32}
	var pngs [][]byte
	for _, size := range sizes {
		var buf bytes.Buffer
		png.Encode(&buf, sunImage(size, c))
		pngs = append(pngs, buf.Bytes())
	}
	return buildICO(sizes, pngs)
}

// sunImage draws a filled disc with eight short rays. No
// anti-aliasing on the rays; the disc edge gets a one-pixel alpha
// falloff so small sizes don't look jagged.
func sunImage(size int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	center := float64(size) / 2
	discR := center * 0.55
	rayInner := discR + float64(size)/16
	rayOuter := center - 0.5

	for y := range size {
		for x := range size {
			px := float64(x) + 0.5
			py := float64(y) + 0.5
			dx := px - center
			dy := py - center
			dist := math.Hypot(dx, dy)

			if dist <= discR-0.5 {
				img.SetNRGBA(x, y, c)
				continue
			}
			if dist <= discR+0.5 {
				a := uint8(float64(c.A) * (discR + 0.5 - dist))
				img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: a})
				continue
			}
			if dist >= rayInner && dist <= rayOuter {
				// Rays every 45°, each about 20° wide.
				angle := math.Mod(math.Atan2(dy, dx)+2*math.Pi, math.Pi/4)
				if angle < math.Pi/18 || angle > math.Pi/4-math.Pi/18 {
					img.SetNRGBA(x, y, c)
				}
			}
		}
	}
	return img
}

func shade(t float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(colorDim.R) + t*(float64(colorBright.R)-float64(colorDim.R))),
		G: uint8(float64(colorDim.G) + t*(float64(colorBright.G)-float64(colorDim.G))),
		B: uint8(float64(colorDim.B) + t*(float64(colorBright.B)-float64(colorDim.B))),
		A: 0xFF,
	}
}

// buildICO assembles an ICO file from PNG-encoded images.
func buildICO(sizes []int, pngs [][]byte) []byte {
	n := len(sizes)
	dataOffset := 6 + n*16 // header + directory entries

	var buf bytes.Buffer
	// Header: reserved, type (1=ICO), count.
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, uint16(n)})

	offset := uint32(dataOffset)
	for i, size := range sizes {
		w := uint8(size)
		if size >= 256 {
			w = 0
		}
		buf.Write([]byte{w, w, 0, 0}) // width, height, palette, reserved
		binary.Write(&buf, binary.LittleEndian, uint16(1))            // color planes
		binary.Write(&buf, binary.LittleEndian, uint16(32))           // bits per pixel
		binary.Write(&buf, binary.LittleEndian, uint32(len(pngs[i]))) // data size
		binary.Write(&buf, binary.LittleEndian, offset)               // data offset
		offset += uint32(len(pngs[i]))
	}

	for _, p := range pngs {
		buf.Write(p)
	}
	return buf.Bytes()
}
