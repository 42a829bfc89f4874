package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/guildops-lab/talos/pkg/cli/config"
	"github.com/guildops-lab/talos/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.toml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o600)).Required()
	return path
}

func TestLoadCaseCatalog(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		path := writeCatalog(t, `
[[case_type]]
id = "bug_report"
name = "Bug Report"
emoji = "🐛"

[[case_type]]
id = "mod_application"
name = "Moderator Application"
`)

		catalog, err := config.LoadCaseCatalog(path)
		gt.NoError(t, err).Required()
		gt.Array(t, catalog.Types).Length(2)

		descriptors := catalog.Descriptors()
		gt.Value(t, descriptors[0].ID).Equal(types.TypeID("bug_report"))
		gt.Value(t, descriptors[0].Emoji).Equal("🐛")
		gt.Value(t, descriptors[1].Name).Equal("Moderator Application")
	})

	t.Run("duplicate IDs rejected", func(t *testing.T) {
		path := writeCatalog(t, `
[[case_type]]
id = "bug_report"
name = "Bug Report"

[[case_type]]
id = "bug_report"
name = "Bug Report Again"
`)

		_, err := config.LoadCaseCatalog(path)
		gt.Error(t, err).Is(config.ErrDuplicateTypeID)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		path := writeCatalog(t, `
[[case_type]]
id = "bug_report"
`)

		_, err := config.LoadCaseCatalog(path)
		gt.Error(t, err).Is(config.ErrMissingName)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadCaseCatalog(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Value(t, err).NotNil()
	})
}
