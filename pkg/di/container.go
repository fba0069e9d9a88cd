// Package di provides dependency injection container
package di

import (
	"context"
	"io"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/rilipak/pkg/api" //nolint:depguard
	"github.com/ssargent/rilipak/pkg/cache"
	"github.com/ssargent/rilipak/pkg/installer"
	"github.com/ssargent/rilipak/pkg/modbuild"
	"go.uber.org/zap"
)

// BuildCache is the build index the commands work against.
type BuildCache interface {
	api.BuildIndex
	Put(e *cache.Entry) (ksuid.KSUID, error)
	Delete(id ksuid.KSUID) error
	Close() error
}

// Installer fetches and builds one mod.
type Installer interface {
	Install(ctx context.Context, dest string) error
	BuildPath() string
}

// CacheOpener opens the build index inside cacheDir.
type CacheOpener func(cacheDir string, logger *zap.Logger) (BuildCache, error)

// InstallerFactory prepares an installer for build. Progress output goes
// to out.
type InstallerFactory func(build *modbuild.ModBuild, cacheDir string, out io.Writer, logger *zap.Logger) Installer

// Container holds all the dependencies for the application
type Container struct {
	cacheOpener      CacheOpener
	installerFactory InstallerFactory
	serverFactory    api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		cacheOpener: func(cacheDir string, logger *zap.Logger) (BuildCache, error) {
			return cache.Open(cacheDir, logger)
		},
		installerFactory: func(build *modbuild.ModBuild, cacheDir string, out io.Writer, logger *zap.Logger) Installer {
			return installer.New(build, cacheDir, logger, installer.WithOutput(out))
		},
		serverFactory: api.NewServerFactory(),
	}
}

// GetCacheOpener returns the build index opener
func (c *Container) GetCacheOpener() CacheOpener {
	return c.cacheOpener
}

// GetInstallerFactory returns the installer factory
func (c *Container) GetInstallerFactory() InstallerFactory {
	return c.installerFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetCacheOpener allows overriding the build index (for testing)
func (c *Container) SetCacheOpener(opener CacheOpener) {
	c.cacheOpener = opener
}

// SetInstallerFactory allows overriding the installer (for testing)
func (c *Container) SetInstallerFactory(factory InstallerFactory) {
	c.installerFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
