package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
)

var (
	imageSizePattern   = regexp.MustCompile(`_(\d+)x(\d+)_`)
	imageSquarePattern = regexp.MustCompile(`_UL(\d+)_`)
	swatchSizeKind     = regexp.MustCompile(`(?i)size`)
	swatchPatternKind  = regexp.MustCompile(`(?i)pattern|print`)
)

func extractImages(l *listing) models.Images {
	img := models.EmptyImages()
	img.Primary = models.Image{
		URL:     l.p.Image.First(l.c),
		AltText: l.p.ImageAlt.First(l.c),
		Srcset:  l.p.ImageSrcset.First(l.c),
	}
	img.Dimensions = imageDimensions(img.Primary.URL)
	if img.Dimensions.Width == 0 {
		w, _ := strconv.Atoi(l.p.ImageWidth.First(l.c))
		h, _ := strconv.Atoi(l.p.ImageHeight.First(l.c))
		img.Dimensions = models.ImageDimensions{Width: w, Height: h}
	}

	img.Thumbnails = append(img.Thumbnails, parseSrcset(img.Primary.Srcset)...)
	for _, alt := range texts(l.c.FindAll(l.p.AlternateImages)) {
		img.Thumbnails = append(img.Thumbnails, models.Thumbnail{URL: alt})
	}
	return img
}

// imageDimensions reads the size hints CDNs embed in image URLs.
func imageDimensions(u string) models.ImageDimensions {
	if m := imageSizePattern.FindStringSubmatch(u); m != nil {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		return models.ImageDimensions{Width: w, Height: h}
	}
	if m := imageSquarePattern.FindStringSubmatch(u); m != nil {
		size, _ := strconv.Atoi(m[1])
		return models.ImageDimensions{Width: size, Height: size}
	}
	return models.ImageDimensions{}
}

// parseSrcset splits "url 1x, url 1.5x" into url/density pairs.
func parseSrcset(srcset string) []models.Thumbnail {
	var out []models.Thumbnail
	for _, item := range strings.Split(srcset, ",") {
		parts := strings.Fields(item)
		if len(parts) < 2 {
			continue
		}
		out = append(out, models.Thumbnail{URL: parts[0], Density: parts[1]})
	}
	return out
}

func extractVariants(l *listing) models.Variants {
	v := models.EmptyVariants()

	for _, sw := range l.c.FindAll(l.p.SwatchSelector) {
		name := l.p.SwatchName.From(sw)
		if name == "" || strings.HasPrefix(name, "+") || strings.EqualFold(name, "other") {
			continue
		}
		switch kind := l.p.SwatchKind.From(sw); {
		case swatchSizeKind.MatchString(kind):
			v.Sizes = appendUnique(v.Sizes, name)
		case swatchPatternKind.MatchString(kind):
			v.Patterns = appendUnique(v.Patterns, name)
		default:
			selected := l.p.SwatchSelected.From(sw)
			v.Colors = append(v.Colors, models.Swatch{
				Name:     name,
				URL:      l.resolve(l.p.SwatchURL.From(sw)),
				ImageURL: l.p.SwatchImage.From(sw),
				Selected: selected != "" && selected != "false",
			})
		}
	}
	for _, size := range texts(l.c.FindAll(l.p.SizeSelector)) {
		v.Sizes = appendUnique(v.Sizes, size)
	}
	for _, pattern := range texts(l.c.FindAll(l.p.PatternSelector)) {
		v.Patterns = appendUnique(v.Patterns, pattern)
	}

	if m := otherOptionsPattern.FindStringSubmatch(l.text); m != nil {
		v.OtherOptionsCount, _ = strconv.Atoi(m[1])
	}
	return v
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
