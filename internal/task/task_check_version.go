package task

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/notefield/notebook-service/internal/app"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
)

const serviceVersionURL = "https://img.shields.io/github/v/release/notefield/notebook-service.json"

type shieldsJSON struct {
	Message string `json:"message"`
}

func init() {
	RegisterWithApp(func(a *app.App) (Task, error) {
		return &CheckVersionTask{app: a}, nil
	})
}

// CheckVersionTask polls the release feed and records whether a newer
// service version exists.
type CheckVersionTask struct {
	app *app.App
}

func (t *CheckVersionTask) Name() string {
	return "check_version"
}

func (t *CheckVersionTask) Run(ctx context.Context) error {
	latest, err := t.fetchVersion(ctx, serviceVersionURL)
	if err != nil {
		return err
	}

	current := t.app.Version().Version
	if !strings.HasPrefix(current, "v") {
		current = "v" + current
	}
	if !strings.HasPrefix(latest, "v") {
		latest = "v" + latest
	}

	info := pkgapp.CheckVersionInfo{
		VersionNewName: strings.TrimPrefix(latest, "v"),
		VersionIsNew:   semver.Compare(latest, current) > 0,
	}
	if !info.VersionIsNew {
		info.VersionNewName = ""
	}

	t.app.SetCheckVersionInfo(info)
	return nil
}

func (t *CheckVersionTask) fetchVersion(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var sj shieldsJSON
	if err := json.Unmarshal(body, &sj); err != nil {
		return "", err
	}
	return sj.Message, nil
}

func (t *CheckVersionTask) LoopInterval() time.Duration {
	return 30 * time.Minute
}

func (t *CheckVersionTask) IsStartupRun() bool {
	return true
}
