package spine

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFilter(t *testing.T) {
	cases := map[string]string{
		"filter: linear,nearest_mipmap":   "filter: Linear, NearestMipmap",
		"filter: Nearest,Nearest":         "filter: Nearest, Nearest",
		"filter: LINEAR , MIPMAP_LINEAR_x": "filter: Linear, MipmapLinearX",
		"filter:linear":                   "filter: Linear",
		"filter: a:b":                     "filter: a:b",
		"size: 1,1":                       "size: 1,1",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeFilter(in), in)
	}
}

func TestNormalizeAtlas(t *testing.T) {
	raw := "page\nsize: 256,256\nformat: RGB565\nfilter: Nearest,Nearest\nrepeat: x-repeat\nregion\n  rotate: true\n  xy: 0,0\n"
	want := "\npage\nsize: 256,256\nformat: RGBA8888\nfilter: Nearest, Nearest\nrepeat: none\nregion\n  rotate: false\n  xy: 0,0\n"
	assert.Equal(t, want, NormalizeAtlas(raw))
}

func TestNormalizeAtlasExported(t *testing.T) {
	raw := "\r\n" +
		"hero.png\r\n" +
		"size: 1024,512\r\n" +
		"format: RGBA4444\r\n" +
		"filter: linear,linear_mipmap_linear\r\n" +
		"repeat: xy\r\n" +
		"\r\n" +
		"head\r\n" +
		"rotate: 90\r\n" +
		"xy: 2, 2\r\n" +
		"size: 64, 64\r\n" +
		"orig: 64, 64\r\n" +
		"offset: 0, 0\r\n" +
		"index: -1\r\n" +
		"hero2.png\r\n" +
		"size: 128,128\r\n" +
		"format: Alpha\r\n"
	want := "\n" +
		"hero.png\n" +
		"size: 1024,512\n" +
		"format: RGBA8888\n" +
		"filter: Linear, LinearMipmapLinear\n" +
		"repeat: none\n" +
		"head\n" +
		"  rotate: false\n" +
		"  xy: 2, 2\n" +
		"  size: 64, 64\n" +
		"  orig: 64, 64\n" +
		"  offset: 0, 0\n" +
		"  index: -1\n" +
		"  size: 128,128\n" +
		"format: RGBA8888\n"
	assert.Equal(t, want, NormalizeAtlas(raw))
}

func TestNormalizeAtlasImageLines(t *testing.T) {
	out := NormalizeAtlas("a.png\nsize: 2,2\nfilter: linear\nb.png\nregion\na.png\n")
	assert.Equal(t, 1, strings.Count(out, ".png"))
	assert.True(t, strings.HasPrefix(out, "\na.png\n"))
}

func TestNormalizeAtlasHeaderClosedByFilter(t *testing.T) {
	out := NormalizeAtlas("p.png\nfilter: nearest\nsize: 10,10\n")
	assert.Equal(t, "\np.png\nfilter: Nearest\n  size: 10,10\n", out)

	// size before filter stays a page header
	out = NormalizeAtlas("p.png\nsize: 10,10\nfilter: nearest\n")
	assert.Equal(t, "\np.png\nsize: 10,10\nfilter: Nearest\n", out)
}

func TestNormalizeAtlasMultipleKeysOnOneLine(t *testing.T) {
	out := NormalizeAtlas("p.png\nsize: 1,1 format: A8\nfilter: linear repeat: x\nr\n")
	assert.Equal(t, "\np.png\nsize: 1,1 format: A8\nformat: RGBA8888\nfilter: linear repeat: x\nrepeat: none\nr\n", out)

	// header block closed by the filter line above
	out = NormalizeAtlas("p.png\nfilter: linear\nsize: 1,1 format: A8\n")
	assert.Equal(t, "\np.png\nfilter: Linear\nformat: RGBA8888\n", out)
}

func TestNormalizeAtlasShape(t *testing.T) {
	re := regexp.MustCompile(`^\n(.*\n)*$`)
	for _, raw := range []string{
		"a",
		"  \n\n x.png \n",
		"size: 1,1\nformat: x\nfilter: linear\nrepeat: none\nr\nrotate: true\n",
		"",
	} {
		out := NormalizeAtlas(raw)
		assert.Regexp(t, re, out, raw)
	}
	assert.Equal(t, "\n\n", NormalizeAtlas("\n \n"))
}
