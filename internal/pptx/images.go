package pptx

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"doc-translator/internal/ooxml"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a raster picture found on a slide. Images are reported for
// inspection only; writers never touch picture shapes.
type Image struct {
	Slide  int
	Shape  int
	Part   string
	Format string
	Width  int
	Height int
	Data   []byte
}

var blipExpr = xpath.MustCompile(".//*[local-name()='blipFill']/*[local-name()='blip']")

// images collects the top-level pictures of every slide. Pictures whose
// media cannot be resolved or decoded are skipped.
func (d *deck) images() []Image {
	var out []Image
	for si, part := range d.slides {
		tree, err := d.shapeTree(part)
		if err != nil {
			continue
		}
		for i, sh := range shapes(tree) {
			if sh.Data != "pic" {
				continue
			}
			img, ok := d.pictureImage(part, sh)
			if !ok {
				continue
			}
			img.Slide, img.Shape = si, i
			out = append(out, img)
		}
	}
	return out
}

func (d *deck) pictureImage(part string, pic *xmlquery.Node) (Image, bool) {
	blip := xmlquery.QuerySelector(pic, blipExpr)
	if blip == nil {
		return Image{}, false
	}
	media, err := d.pkg.Target(part, ooxml.Attr(blip, ooxml.NSOfficeRels, "embed"))
	if err != nil {
		log.Debug().Err(err).Str("slide", part).Msg("Skipping unresolved picture")
		return Image{}, false
	}
	data, err := d.pkg.Raw(media)
	if err != nil {
		return Image{}, false
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Str("media", media).Msg("Skipping undecodable picture")
		return Image{}, false
	}
	return Image{
		Part:   media,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Data:   data,
	}, true
}
