// Package preview shows a rendered frame in the terminal.
package preview

import (
	"context"
	"fmt"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Frame draws a pixel buffer scaled to fit the drawing area.
// Each terminal cell holds two image rows: the upper half block takes the
// top pixel as foreground and the bottom pixel as background.
type Frame struct {
	Buffer *renderer.PixelBuffer
}

var _ uv.Drawable = Frame{}

// Draw implements uv.Drawable
func (f Frame) Draw(scr uv.Screen, area uv.Rectangle) {
	if f.Buffer == nil || f.Buffer.Width == 0 || f.Buffer.Height == 0 || area.Empty() {
		return
	}

	cols, rows := fitSize(f.Buffer.Width, f.Buffer.Height, area.Dx(), area.Dy()*2)
	scaleX := float64(f.Buffer.Width) / float64(cols)
	scaleY := float64(f.Buffer.Height) / float64(rows)

	for row := 0; row*2 < rows; row++ {
		topY := row * 2
		botY := topY + 1

		for col := 0; col < cols; col++ {
			x := int(float64(col) * scaleX)
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: f.pixel(x, int(float64(topY)*scaleY)),
				},
			}
			if botY < rows {
				cell.Style.Bg = f.pixel(x, int(float64(botY)*scaleY))
			}
			scr.SetCell(area.Min.X+col, area.Min.Y+row, cell)
		}
	}
}

func (f Frame) pixel(x, y int) color.Color {
	r, g, b := f.Buffer.At(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// fitSize scales a width x height image to fit inside maxW x maxH pixels,
// keeping the aspect ratio. The result is never smaller than 1x1.
func fitSize(width, height, maxW, maxH int) (int, int) {
	scale := float64(maxW) / float64(width)
	if s := float64(maxH) / float64(height); s < scale {
		scale = s
	}
	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Show displays the buffer on the alternate screen until a key is pressed or ctx is done
func Show(ctx context.Context, buffer *renderer.PixelBuffer) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Display()
		_ = term.Shutdown(context.Background())
	}
	defer cleanup()

	frame := Frame{Buffer: buffer}
	display := func() error {
		term.Draw(frame)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		return nil
	}
	if err := display(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-term.Events():
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				if err := term.Resize(ev.Width, ev.Height); err != nil {
					return fmt.Errorf("resize terminal: %w", err)
				}
				if err := display(); err != nil {
					return err
				}
			case uv.KeyPressEvent:
				return nil
			}
		}
	}
}
