package allure

import (
	"bytes"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

func renderDescription(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
