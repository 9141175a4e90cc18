// Package discovery registers the storefront API instance in etcd so
// that edge proxies can find it.
package discovery

import (
	"context"
	"fmt"

	"github.com/example/shophub/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const leaseTTLSeconds = 30

type Registry struct {
	client *clientv3.Client
	config *config.EtcdConfig
}

type ServiceInstance struct {
	Name string
	Host string
	Port int
}

func (i *ServiceInstance) key(prefix string) string {
	return fmt.Sprintf("%s%s/%s:%d", prefix, i.Name, i.Host, i.Port)
}

func (i *ServiceInstance) addr() string {
	return fmt.Sprintf("%s:%d", i.Host, i.Port)
}

func NewRegistry(cfg *config.EtcdConfig) (*Registry, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &Registry{
		client: cli,
		config: cfg,
	}, nil
}

// Register writes the instance under a leased key and keeps the lease
// alive until the context is cancelled or the registry is closed.
func (r *Registry) Register(ctx context.Context, instance *ServiceInstance) error {
	lease, err := r.client.Grant(ctx, leaseTTLSeconds)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	_, err = r.client.Put(ctx, instance.key(r.config.Prefix), instance.addr(), clientv3.WithLease(lease.ID))
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("failed to keep alive: %w", err)
	}

	go func() {
		for range ch {
		}
	}()

	return nil
}

func (r *Registry) Deregister(ctx context.Context, instance *ServiceInstance) error {
	_, err := r.client.Delete(ctx, instance.key(r.config.Prefix))
	if err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	return nil
}

func (r *Registry) Close() error {
	return r.client.Close()
}
