// Package consul registers the service with a Consul agent so other services
// can discover it. Registration is optional; the server runs fine without it.
package consul

import (
	"fmt"
	"os"

	"github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type Client struct {
	agent     *api.Agent
	serviceID string
	logger    *zap.Logger
}

// Register connects to the Consul agent at addr and registers the service
// with an HTTP health check against /health.
func Register(addr, serviceName string, servicePort int, logger *zap.Logger) (*Client, error) {
	cfg := api.DefaultConfig()
	cfg.Address = addr

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("resolve hostname: %w", err)
	}

	c := &Client{
		agent:     client.Agent(),
		serviceID: fmt.Sprintf("%s-%s", serviceName, hostname),
		logger:    logger,
	}

	registration := &api.AgentServiceRegistration{
		ID:      c.serviceID,
		Name:    serviceName,
		Port:    servicePort,
		Address: hostname,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", hostname, servicePort),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}

	if err := c.agent.ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("register service: %w", err)
	}

	logger.Info("registered with consul",
		zap.String("service_id", c.serviceID),
		zap.Int("port", servicePort),
	)

	return c, nil
}

func (c *Client) Deregister() {
	if err := c.agent.ServiceDeregister(c.serviceID); err != nil {
		c.logger.Warn("consul deregistration failed", zap.Error(err))
		return
	}
	c.logger.Info("deregistered from consul", zap.String("service_id", c.serviceID))
}
