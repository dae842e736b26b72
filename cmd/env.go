package main

import (
	"github.com/HebaAhmedDahab/employee-data-pipeline/library/yamlenv"
)

func envStr(e *yamlenv.Env[string], def string) string {
	if e == nil || e.Value == "" {
		return def
	}
	return e.Value
}

func envInt(e *yamlenv.Env[int], def int) int {
	if e == nil || e.Value == 0 {
		return def
	}
	return e.Value
}

func envBool(e *yamlenv.Env[bool]) bool {
	return e != nil && e.Value
}
