package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rileyhilliard/actop/internal/config"
	"github.com/rileyhilliard/actop/internal/doctor"
	"github.com/rileyhilliard/actop/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorCommand_HealthyActuator(t *testing.T) {
	srv := fakeActuator(t)
	withConfigFile(t, "base_url: "+srv.URL+"/actuator\n")
	ui.DisableColors()

	var out bytes.Buffer
	err := doctorCommand(context.Background(), &MonitorFlags{}, false, &out)
	require.NoError(t, err, "missing metrics only warn")

	text := out.String()
	assert.Contains(t, text, "CONFIG")
	assert.Contains(t, text, "ACTUATOR")
	assert.Contains(t, text, "PROXY")
	assert.Contains(t, text, "Health UP")
	assert.Contains(t, text, "Missing: jvm.memory.used")
	assert.Contains(t, text, "issue")
}

func TestDoctorCommand_UnreachableFailsAsJSON(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	withConfigFile(t, "base_url: "+srv.URL+"/actuator\n")

	var out bytes.Buffer
	err := doctorCommand(context.Background(), &MonitorFlags{}, true, &out)
	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.code)

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Categories []struct {
				Name    string `json:"name"`
				Results []struct {
					Name   string `json:"name"`
					Status string `json:"status"`
				} `json:"results"`
			} `json:"categories"`
			Summary SummaryOutput `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))

	require.Len(t, env.Data.Categories, 3)
	assert.Equal(t, "ACTUATOR", env.Data.Categories[1].Name)
	assert.Equal(t, "fail", env.Data.Categories[1].Results[0].Status)
	assert.Equal(t, 2, env.Data.Summary.Fail)
	assert.False(t, env.Data.Summary.AllClear)
}

func TestDoctorCommand_BadFlag(t *testing.T) {
	withConfigFile(t, "version: 1\n")
	err := doctorCommand(context.Background(), &MonitorFlags{Timeout: "soon"}, false, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--timeout")
}

func TestGroupResults_FollowsCategoryOrder(t *testing.T) {
	checks := append(doctor.NewProxyChecks(config.DefaultConfig().Proxy), doctor.NewConfigChecks("")...)
	results := []doctor.CheckResult{{Name: "proxy_filter"}, {Name: "config_file"}, {Name: "config_schema"}}

	grouped := groupResults(checks, results)
	require.Len(t, grouped, 2)
	assert.Equal(t, "CONFIG", grouped[0].Name)
	assert.Len(t, grouped[0].Results, 2)
	assert.Equal(t, "PROXY", grouped[1].Name)
}
