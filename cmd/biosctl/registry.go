package main

import (
	"sort"

	conrepbackend "github.com/honeybbq/biosconfig/backend/conrep"
	hprcubackend "github.com/honeybbq/biosconfig/backend/hprcu"
	"github.com/honeybbq/biosconfig/internal/config"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
	conreprenderer "github.com/honeybbq/biosconfig/pkg/renderer/conrep"
	hprcurenderer "github.com/honeybbq/biosconfig/pkg/renderer/hprcu"
	"github.com/honeybbq/biosconfig/pkg/tool"
)

type backendEntry struct {
	backend biosconfig.Backend
	format  string
	newTool func(cfg config.Config, exec tool.Executor) tool.Tool
}

func buildRegistry() map[string]backendEntry {
	return map[string]backendEntry{
		"hprcu": {
			backend: hprcubackend.New(
				hprcurenderer.NewXMLRenderer(),
				hprcurenderer.NewXMLParser(),
			),
			format: hprcurenderer.Format,
			newTool: func(cfg config.Config, exec tool.Executor) tool.Tool {
				return &tool.HPRCU{Path: cfg.HPRCU, Advanced: cfg.Advanced, Exec: exec}
			},
		},
		"conrep": {
			backend: conrepbackend.New(
				conreprenderer.NewXMLRenderer(),
				conreprenderer.NewXMLParser(),
			),
			format: conreprenderer.Format,
			newTool: func(cfg config.Config, exec tool.Executor) tool.Tool {
				return &tool.Conrep{Path: cfg.Conrep, HWDef: cfg.HWDef, Exec: exec}
			},
		},
	}
}

func backendNames(registry map[string]backendEntry) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
