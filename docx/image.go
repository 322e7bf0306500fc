package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	// Decoders for photo formats Word cannot display directly; they are
	// re-encoded as PNG.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned when image bytes cannot be decoded.
var ErrInvalidImage = errors.New("docx: invalid image data")

// EMUPerInch is the number of English Metric Units in an inch.
const EMUPerInch = 914400

// MaxImagePixels caps the decoded size of an image. Dimensions are read from
// the header, so oversized images are rejected before any pixel is decoded.
const MaxImagePixels = 50_000_000

// Image is a decoded picture ready to be stored in a package.
type Image struct {
	Data        []byte
	Ext         string // file extension without the dot
	ContentType string
	Width       int // pixels
	Height      int // pixels
}

// LoadImage decodes image bytes and prepares them for embedding. PNG, JPEG
// and GIF data is kept as-is; other decodable formats (WebP, BMP, TIFF) are
// re-encoded as PNG. When maxSide is positive, images whose longest side
// exceeds it are downscaled.
func LoadImage(data []byte, maxSide int) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: content is %s", ErrInvalidImage, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidImage, mt.String(), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, MaxImagePixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidImage, mt.String(), err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrInvalidImage)
	}

	oversized := maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide)
	switch format {
	case "png", "jpeg", "gif":
		if !oversized {
			return &Image{
				Data:        data,
				Ext:         format,
				ContentType: "image/" + format,
				Width:       b.Dx(),
				Height:      b.Dy(),
			}, nil
		}
	}

	if oversized {
		img = fit(img, maxSide)
	}

	var buf bytes.Buffer
	out := &Image{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
		out.Ext, out.ContentType = "jpeg", "image/jpeg"
	case "gif":
		err = gif.Encode(&buf, img, nil)
		out.Ext, out.ContentType = "gif", "image/gif"
	default:
		err = png.Encode(&buf, img)
		out.Ext, out.ContentType = "png", "image/png"
	}
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s: %v", ErrInvalidImage, out.Ext, err)
	}
	out.Data = buf.Bytes()
	return out, nil
}

// fit scales src so that its longest side is maxSide pixels.
func fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	nw, nh := maxSide, maxSide
	if w >= h {
		nh = h * maxSide / w
	} else {
		nw = w * maxSide / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Extent returns the display size in EMUs for an image shown at the given
// width, keeping its aspect ratio.
func (img *Image) Extent(widthInches float64) (cx, cy int64) {
	cx = int64(widthInches * EMUPerInch)
	cy = cx * int64(img.Height) / int64(img.Width)
	return cx, cy
}

// AddImage stores the image in the package's media folder and relates it to
// this document part. It returns the relationship id to reference it by.
func (d *Document) AddImage(img *Image) (string, error) {
	media := d.pkg.uniqueMediaName(img.Ext)
	d.pkg.WriteFile(media, img.Data)

	if err := d.pkg.ensureDefaultContentType(img.Ext, img.ContentType); err != nil {
		return "", err
	}

	target := strings.TrimPrefix(media, path.Dir(d.name)+"/")
	return d.pkg.addRelationship(d.name, relTypeImage, target)
}

// InsertPicture appends an inline picture to the paragraph. relID must come
// from AddImage on the same document.
func (d *Document) InsertPicture(p *Paragraph, relID string, img *Image, widthInches float64) error {
	cx, cy := img.Extent(widthInches)
	id := d.pkg.nextDrawingID()
	name := fmt.Sprintf("Picture %d", id)

	frag := etree.NewDocument()
	if err := frag.ReadFromString(fmt.Sprintf(drawingTemplate,
		nsW, nsWP, nsA, nsPic, nsR, cx, cy, id, name, name, relID, cx, cy)); err != nil {
		return fmt.Errorf("building drawing: %w", err)
	}

	run := p.appendRun()
	run.AddChild(frag.Root())
	return nil
}

const drawingTemplate = `<w:drawing xmlns:w="%s" xmlns:wp="%s" xmlns:a="%s" xmlns:pic="%s" xmlns:r="%s">` +
	`<wp:inline distT="0" distB="0" distL="0" distR="0">` +
	`<wp:extent cx="%d" cy="%d"/>` +
	`<wp:effectExtent l="0" t="0" r="0" b="0"/>` +
	`<wp:docPr id="%d" name="%s"/>` +
	`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>` +
	`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:pic><pic:nvPicPr><pic:cNvPr id="0" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>` +
	`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
	`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`

// ensureDefaultContentType registers a content type for a file extension in
// [Content_Types].xml unless one exists.
func (p *Package) ensureDefaultContentType(ext, contentType string) error {
	tree, err := p.xmlPart("[Content_Types].xml")
	if err != nil {
		return err
	}
	root := tree.Root()
	for _, c := range root.ChildElements() {
		if c.Tag == "Default" && strings.EqualFold(c.SelectAttrValue("Extension", ""), ext) {
			return nil
		}
	}

	def := etree.NewElement("Default")
	def.CreateAttr("Extension", ext)
	def.CreateAttr("ContentType", contentType)
	root.InsertChildAt(0, def)
	return nil
}

// addRelationship adds a relationship from part to target and returns its id.
// The relationships part is created when the part has none.
func (p *Package) addRelationship(part, relType, target string) (string, error) {
	relsName := relsPartName(part)
	if !p.Has(relsName) {
		p.WriteFile(relsName, []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
			`<Relationships xmlns="`+nsRels+`"></Relationships>`))
	}
	tree, err := p.xmlPart(relsName)
	if err != nil {
		return "", err
	}
	root := tree.Root()

	used := make(map[string]bool)
	for _, c := range root.ChildElements() {
		if c.Tag == "Relationship" {
			used[c.SelectAttrValue("Id", "")] = true
		}
	}
	id := ""
	for n := len(used) + 1; ; n++ {
		id = fmt.Sprintf("rId%d", n)
		if !used[id] {
			break
		}
	}

	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	return id, nil
}
