package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// Conditioner removes speckle noise from a raw foreground mask: an
// erosion pass drops isolated pixels, a dilation pass with the same
// kernel restores the boundary of genuine regions and closes small
// gaps. Stateless apart from the reusable kernel; a uniform mask
// passes through unchanged.
type Conditioner struct {
	kernel gocv.Mat
}

func NewConditioner() *Conditioner {
	return &Conditioner{
		kernel: gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(5, 5)),
	}
}

// Clean returns a denoised copy of the mask. The input is not modified.
func (c *Conditioner) Clean(mask gocv.Mat) gocv.Mat {
	cleaned := gocv.NewMat()
	gocv.Erode(mask, &cleaned, c.kernel)
	gocv.Dilate(cleaned, &cleaned, c.kernel)
	return cleaned
}

// Close releases the structuring element.
func (c *Conditioner) Close() {
	c.kernel.Close()
}
