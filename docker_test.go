package usersignup_test

import (
	"os"
	"strings"
	"testing"
)

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

func TestDockerfileMultiStageBuild(t *testing.T) {
	content := readFile(t, "Dockerfile")

	// マルチステージビルドの確認: ビルドステージと実行ステージが存在すること
	if !strings.Contains(content, "FROM golang:") {
		t.Error("Dockerfile should contain a Go builder stage (FROM golang:)")
	}

	// 最終ステージは軽量イメージであること
	var lastFrom string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "FROM ") {
			lastFrom = trimmed
		}
	}
	if !strings.Contains(lastFrom, "gcr.io/distroless") && !strings.Contains(lastFrom, "alpine") && !strings.Contains(lastFrom, "scratch") {
		t.Errorf("final stage should use a minimal base image (distroless/alpine/scratch), got: %s", lastFrom)
	}
}

func TestDockerfileBinary(t *testing.T) {
	content := readFile(t, "Dockerfile")

	if !strings.Contains(content, "./cmd/usersignup") {
		t.Error("Dockerfile should build ./cmd/usersignup")
	}
	if !strings.Contains(content, `ENTRYPOINT ["/usersignup"]`) {
		t.Error("Dockerfile should use the usersignup binary as ENTRYPOINT")
	}
	// distrolessにはcurlがないためサブコマンドでヘルスチェックする
	if !strings.Contains(content, `"healthcheck"`) {
		t.Error("Dockerfile HEALTHCHECK should use the healthcheck subcommand")
	}
}

func TestDockerComposeServices(t *testing.T) {
	content := readFile(t, "docker-compose.yml")

	for _, svc := range []string{"api:", "migrate:", "db:", "postgres:"} {
		if !strings.Contains(content, svc) {
			t.Errorf("docker-compose.yml should contain %q", svc)
		}
	}
	if strings.Contains(content, "worker") {
		t.Error("docker-compose.yml should not define a worker service")
	}
}

func TestDockerComposeRequiresGeocoderKey(t *testing.T) {
	content := readFile(t, "docker-compose.yml")

	if !strings.Contains(content, "OPENCAGE_API_KEY: ${OPENCAGE_API_KEY:?") {
		t.Error("docker-compose.yml should require OPENCAGE_API_KEY")
	}
	// テストモードは明示しない限り有効にならない
	if !strings.Contains(content, "APP_ENV: ${APP_ENV:-production}") {
		t.Error("docker-compose.yml should default APP_ENV to production")
	}
}

func TestDockerComposeNetworks(t *testing.T) {
	content := readFile(t, "docker-compose.yml")

	// DBは内部ネットワークのみ
	if !strings.Contains(content, "internal: true") {
		t.Error("docker-compose.yml should define an internal network (internal: true)")
	}
	// APIのみジオコーダへのegressを持つ
	if !strings.Contains(content, "external:") {
		t.Error("docker-compose.yml should define an external network for geocoder egress")
	}
}
