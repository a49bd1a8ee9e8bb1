package render

import (
	"fmt"
	"html/template"
	"path"
	"path/filepath"
	"strings"
	"time"

	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// MediaPrefix is the URL prefix stored images are served under.
const MediaPrefix = "/media/"

// Views are the template names handlers render. Each maps to
// views/<name> under the templates directory.
var Views = []string{
	"posts/index.html",
	"posts/group_list.html",
	"posts/groups.html",
	"posts/profile.html",
	"posts/post_detail.html",
	"posts/create_post.html",
	"posts/follow.html",
	"users/signup.html",
	"users/login.html",
	"users/logged_out.html",
	"core/404.html",
	"core/500.html",
}

// FuncMap is shared by every view.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": TimeAgo,
		"date": func(t time.Time) string {
			return t.Format("2 Jan 2006")
		},
		"markdown": utils.RenderMarkdown,
		"mediaURL": MediaURL,
	}
}

// TimeAgo formats t relative to now, e.g. "5 minutes ago".
func TimeAgo(t time.Time) string {
	return timeAgo(t, time.Now())
}

func timeAgo(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	unit := func(n int, name string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", name)
		}
		return fmt.Sprintf("%d %ss ago", n, name)
	}
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return unit(seconds/60, "minute")
	case seconds < 86400:
		return unit(seconds/3600, "hour")
	case seconds < 2592000:
		return unit(seconds/86400, "day")
	case seconds < 31536000:
		return unit(seconds/2592000, "month")
	}
	return unit(seconds/31536000, "year")
}

// MediaURL turns a stored image reference into its public URL.
func MediaURL(ref string) string {
	if ref == "" {
		return ""
	}
	return MediaPrefix + strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(ref)), "/")
}

// Load builds the renderer from templatesDir. Every view is parsed together
// with layouts/*.html and includes/*.html; a broken template panics.
func Load(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(filepath.Join(templatesDir, "layouts", "*.html"))
	if err != nil {
		panic(err)
	}
	includes, err := filepath.Glob(filepath.Join(templatesDir, "includes", "*.html"))
	if err != nil {
		panic(err)
	}

	// Helper to assemble files
	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, filepath.Join(templatesDir, "views", filepath.FromSlash(view)))
		return files
	}

	funcMap := FuncMap()
	for _, view := range Views {
		r.AddFromFilesFuncs(view, funcMap, assemble(view)...)
	}
	return r
}
