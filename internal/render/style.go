package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"layerpage/internal/layout"
)

// Funcs returns the helpers available to page templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"pageStyle":       pageStyle,
		"backgroundStyle": backgroundStyle,
		"layerStyle":      layerStyle,
		"nameStyle":       nameStyle,
	}
}

type declarations []string

func (d *declarations) add(property, value string) {
	*d = append(*d, property+": "+value)
}

func (d declarations) css() template.CSS {
	return template.CSS(strings.Join(d, "; "))
}

func px(v int) string {
	return strconv.Itoa(v) + "px"
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pageStyle(m *layout.Model) template.CSS {
	var d declarations
	if m == nil {
		return d.css()
	}
	d.add("width", px(m.Width))
	d.add("height", px(m.Height))
	return d.css()
}

func backgroundStyle(m *layout.Model) template.CSS {
	var d declarations
	if m == nil || m.Background == nil {
		return d.css()
	}
	bg := m.Background
	d.add("left", "0")
	d.add("top", "0")
	d.add("width", px(m.Width))
	d.add("height", px(m.Height))
	if bg.Color != "" {
		d.add("background-color", cssToken(bg.Color))
	} else if bg.Image != "" {
		d.add("background-image", fmt.Sprintf("url('%s')", cssString(bg.Image)))
		d.add("background-size", "100% 100%")
	}
	if bg.Opacity < 1 {
		d.add("opacity", number(bg.Opacity))
	}
	return d.css()
}

func layerStyle(l layout.LayerEntry) template.CSS {
	var d declarations
	d.add("left", px(l.Left))
	d.add("top", px(l.Top))
	d.add("width", px(l.Width))
	d.add("height", px(l.Height))
	if l.Opacity < 1 {
		d.add("opacity", number(l.Opacity))
	}
	if l.Text != nil {
		if l.FontName != "" {
			d.add("font-family", fmt.Sprintf("'%s'", cssString(l.FontName)))
		}
		if l.FontSize > 0 {
			d.add("font-size", number(l.FontSize)+"px")
		}
		if l.FontColor != "" {
			d.add("color", cssToken(l.FontColor))
		}
	}
	if l.Rotate != 0 {
		d.add("transform", fmt.Sprintf("rotate(%ddeg)", l.Rotate))
	}
	return d.css()
}

func nameStyle(l layout.LayerEntry) template.CSS {
	var d declarations
	d.add("left", px(l.Left))
	d.add("top", px(l.Top))
	return d.css()
}

// cssString drops characters that could terminate a quoted CSS string or
// the declaration around it.
func cssString(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', '\\', ';', '<', '>', '{', '}', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// cssToken keeps the characters a color expression needs.
func cssToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case r == '#', r == '(', r == ')', r == ',', r == '.', r == ' ':
			return r
		}
		return -1
	}, s)
}
