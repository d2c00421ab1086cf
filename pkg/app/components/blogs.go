package components

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
)

func BlogCard(blog data.Blog) string {
	stats := fmt.Sprintf("👁 %s  💬 %s",
		humanize.Comma(int64(blog.Stats.Views)),
		humanize.Comma(int64(blog.Stats.Comments)),
	)
	return strings.Join([]string{
		styles.TextStyle.Render(blog.Title),
		styles.MutedStyle.Render(blog.Author + " • " + stats),
	}, "\n")
}

func BlogList(blogs []data.Blog) string {
	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render("Popular blogs"))
	b.WriteString("\n\n")
	for _, blog := range blogs {
		b.WriteString(BlogCard(blog))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
