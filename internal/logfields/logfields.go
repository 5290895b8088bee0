package logfields

import "log/slog"

// Canonical log field names shared by the commands and the index.
const (
	KeyPath       = "path"
	KeyRecipeID   = "recipe_id"
	KeyTitle      = "title"
	KeyAction     = "action"
	KeyLine       = "line"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyConfig     = "config"
	KeyError      = "error"
)

func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func RecipeID(id int64) slog.Attr     { return slog.Int64(KeyRecipeID, id) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Action(a string) slog.Attr       { return slog.String(KeyAction, a) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Config(path string) slog.Attr    { return slog.String(KeyConfig, path) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
