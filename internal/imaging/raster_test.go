package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestNewRaster(t *testing.T) {
	tests := []struct {
		name                    string
		width, height, channels int
		wantLen                 int
		wantArea                int
	}{
		{"rgb", 4, 3, 3, 36, 12},
		{"gray", 5, 5, 1, 25, 25},
		{"zero width", 0, 5, 3, 0, 0},
		{"negative height", 4, -1, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRaster(tt.width, tt.height, tt.channels)
			if len(r.Pix) != tt.wantLen {
				t.Errorf("len(Pix): got %d, want %d", len(r.Pix), tt.wantLen)
			}
			if r.Area() != tt.wantArea {
				t.Errorf("Area: got %d, want %d", r.Area(), tt.wantArea)
			}
		})
	}
}

func TestRaster_SetAt(t *testing.T) {
	r := NewRaster(3, 2, 3)
	r.Set(2, 1, 1, 42)

	if got := r.At(2, 1, 1); got != 42 {
		t.Errorf("At: got %v, want 42", got)
	}
	if got := r.Pixel(2, 1); got[1] != 42 {
		t.Errorf("Pixel: got %v, want channel 1 = 42", got)
	}
	// Last value in Pix belongs to (2,1) channel 2
	if idx := (1*3+2)*3 + 1; r.Pix[idx] != 42 {
		t.Errorf("row-major layout broken: Pix[%d] = %v", idx, r.Pix[idx])
	}
}

func TestFromImage_RGB(t *testing.T) {
	img := createInMemoryImage(5, 4, color.RGBA{10, 20, 30, 255})
	r := FromImage(img)

	if r.Width != 5 || r.Height != 4 || r.Channels != 3 {
		t.Fatalf("shape: got %dx%dx%d, want 5x4x3", r.Width, r.Height, r.Channels)
	}
	px := r.Pixel(4, 3)
	if px[0] != 10 || px[1] != 20 || px[2] != 30 {
		t.Errorf("pixel: got %v, want [10 20 30]", px)
	}
}

func TestFromImage_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	img.SetGray(1, 1, color.Gray{Y: 200})

	r := FromImage(img)
	if r.Channels != 1 {
		t.Fatalf("Channels: got %d, want 1", r.Channels)
	}
	if r.At(1, 1, 0) != 200 {
		t.Errorf("center: got %v, want 200", r.At(1, 1, 0))
	}
	if r.At(0, 0, 0) != 0 {
		t.Errorf("corner: got %v, want 0", r.At(0, 0, 0))
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	full := createPatternImage(10, 10)
	sub := full.SubImage(image.Rect(5, 5, 10, 10))

	r := FromImage(sub)
	if r.Width != 5 || r.Height != 5 {
		t.Fatalf("shape: got %dx%d, want 5x5", r.Width, r.Height)
	}
	// Bottom-right quadrant of the pattern is white
	px := r.Pixel(0, 0)
	if px[0] != 255 || px[1] != 255 || px[2] != 255 {
		t.Errorf("pixel: got %v, want white", px)
	}
}

func TestRaster_Channel(t *testing.T) {
	r := NewRaster(3, 1, 2)
	r.Set(0, 0, 1, -10)
	r.Set(1, 0, 1, 127.6)
	r.Set(2, 0, 1, 999)

	g := r.Channel(1)
	want := []uint8{0, 128, 255}
	for x, w := range want {
		if g.GrayAt(x, 0).Y != w {
			t.Errorf("x=%d: got %d, want %d", x, g.GrayAt(x, 0).Y, w)
		}
	}
}

func TestRaster_Clone(t *testing.T) {
	r := NewRaster(2, 2, 1)
	r.Set(0, 0, 0, 7)

	c := r.Clone()
	c.Set(0, 0, 0, 9)
	if r.At(0, 0, 0) != 7 {
		t.Error("Clone shares pixel storage with the original")
	}
}
