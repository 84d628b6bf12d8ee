package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*ServerConfig, error) {
	var out ServerConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	if out.ServerPort == "" {
		out.ServerPort = "8080"
	}
	if out.LogLevel == "" {
		out.LogLevel = "info"
	}
	if out.Checklist == "" && out.FieldSpec == "" {
		return nil, fmt.Errorf("config: either checklist or fieldspec is needed")
	}
	return &out, nil
}
