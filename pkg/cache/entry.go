package cache

import "github.com/ssargent/rilipak/pkg/modbuild"

//go:generate go run github.com/ssargent/rilipak/cmd/oxfmtgen

// Entry records one installed build.
//
//oxfmt:record header=mcmbcache version=1
type Entry struct {
	Build       modbuild.ModBuild `json:"build" oxfmt:"record"`
	Artifact    string            `json:"artifact"`
	Digest      []byte            `json:"digest"`
	InstalledAt uint64            `json:"installed_at"` // unix seconds
}
