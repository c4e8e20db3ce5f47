package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-moonshot/internal/config"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type MainTestSuite struct {
	suite.Suite
	tempDir string
}

func TestMainSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func (suite *MainTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.T().Chdir(suite.tempDir)
	suite.T().Setenv(config.EnvBinanceAPIKey, "")
	suite.T().Setenv(config.EnvBinanceSecretKey, "")
	suite.T().Setenv(config.EnvPolygonAPIKey, "")
}

func (suite *MainTestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer

	cmd := newCommand()
	cmd.Writer = &out

	err := cmd.Run(context.Background(), append([]string{"argo-moonshot"}, args...))

	return out.String(), err
}

func (suite *MainTestSuite) TestLoadConfigDefaults() {
	cfg, err := loadConfig("", nil)
	suite.Require().NoError(err)
	suite.Equal(config.Default().Core.InitialBalance, cfg.Core.InitialBalance)
	suite.Equal(config.ExchangeSimulated, cfg.Exchange.Kind)
}

func (suite *MainTestSuite) TestLoadConfigFileAndEnv() {
	envPath := filepath.Join(suite.tempDir, "test.env")
	suite.Require().NoError(os.WriteFile(envPath, []byte("BINANCE_API_KEY=from-env-file\n"), 0o600))
	suite.Require().NoError(os.Unsetenv(config.EnvBinanceAPIKey))

	cfgPath := filepath.Join(suite.tempDir, "config.yaml")
	suite.Require().NoError(os.WriteFile(cfgPath, []byte("version: 1.0.0\ncore:\n  initial_balance: 2500\n"), 0o600))

	cfg, err := loadConfig(cfgPath, []string{envPath})
	suite.Require().NoError(err)
	suite.InDelta(2500, cfg.Core.InitialBalance, 1e-9)
	suite.Equal("from-env-file", cfg.Exchange.APIKey)
}

func (suite *MainTestSuite) TestLoadConfigRejectsBadCapital() {
	cfgPath := filepath.Join(suite.tempDir, "config.yaml")
	suite.Require().NoError(os.WriteFile(cfgPath, []byte("version: 1.0.0\nmoonshot:\n  initial_balance: 0\n"), 0o600))

	_, err := loadConfig(cfgPath, nil)
	suite.Error(err)
	suite.True(errors.IsFatal(err))
}

func (suite *MainTestSuite) TestSchemaCommand() {
	out, err := suite.run("schema")
	suite.Require().NoError(err)

	var schema map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(out), &schema))
	suite.Contains(schema, "properties")
}

func (suite *MainTestSuite) TestConfigCommand() {
	suite.T().Setenv(config.EnvBinanceAPIKey, "top-secret-key")

	out, err := suite.run("config")
	suite.Require().NoError(err)
	suite.NotContains(out, "top-secret-key")

	var cfg config.Config
	suite.Require().NoError(yaml.Unmarshal([]byte(out), &cfg))
	suite.Equal(config.CurrentVersion, cfg.Version)
	suite.Equal(config.Default().Moonshot.Universe, cfg.Moonshot.Universe)
}

func (suite *MainTestSuite) TestConfigCommandMissingFile() {
	_, err := suite.run("config", "--config", filepath.Join(suite.tempDir, "missing.yaml"))
	suite.Error(err)
}
