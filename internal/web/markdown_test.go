package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownRender(t *testing.T) {
	md := NewMarkdown()

	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "标题和强调",
			src:      "# Dosing\n\nTake **twice** daily",
			contains: []string{"<h1", "Dosing</h1>", "<strong>twice</strong>"},
		},
		{
			name:     "表格扩展",
			src:      "| Drug | Dose |\n|---|---|\n| Aspirin | 75mg |",
			contains: []string{"<table>", "<td>Aspirin</td>"},
		},
		{
			name:     "脚本被移除",
			src:      "Before\n\n<script>alert(1)</script>\n\nAfter",
			contains: []string{"Before", "After"},
			excludes: []string{"<script", "alert(1)"},
		},
		{
			name:     "javascript 链接被移除",
			src:      "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "外链加 nofollow",
			src:      "[NICE](https://www.nice.org.uk/)",
			contains: []string{`href="https://www.nice.org.uk/"`, "nofollow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(md.Render(tt.src))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
