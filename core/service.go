package core

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Interface defines a common interface for all services
type Interface interface {
	Start(ctx context.Context) error
	Stop()
}

// Registry manages all services
type Registry struct {
	services []Interface
	started  int
}

// NewRegistry creates a new core registry
func NewRegistry() *Registry {
	return &Registry{
		services: make([]Interface, 0),
	}
}

// Register adds a service to the registry. Services start in registration order.
func (sr *Registry) Register(service Interface) {
	sr.services = append(sr.services, service)
}

// StartAll starts all registered services. If one fails, the services
// started before it are stopped again.
func (sr *Registry) StartAll(ctx context.Context) error {
	for i, service := range sr.services {
		if err := service.Start(ctx); err != nil {
			log.Errorf("Registry: Failed to start %s: %v", serviceName(service), err)
			sr.StopAll()
			return errors.Wrapf(err, "start %s", serviceName(service))
		}
		sr.started = i + 1
	}
	return nil
}

// StopAll stops the started services in reverse order
func (sr *Registry) StopAll() {
	for i := sr.started - 1; i >= 0; i-- {
		sr.services[i].Stop()
	}
	sr.started = 0
}

// Len returns the number of registered services
func (sr *Registry) Len() int {
	return len(sr.services)
}

func serviceName(service Interface) string {
	return fmt.Sprintf("%T", service)
}
