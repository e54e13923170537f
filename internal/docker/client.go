package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// Client wraps the Docker SDK client
type Client struct {
	cli *client.Client
}

// NewClient creates a new Docker client
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("Docker daemon not reachable: %w", err)
	}

	return &Client{cli: cli}, nil
}

// Close closes the Docker client
func (c *Client) Close() error {
	return c.cli.Close()
}

// ListContainers returns all containers (running and recently exited)
func (c *Client) ListContainers(ctx context.Context) ([]Container, error) {
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{
		All: true, // Include exited containers
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	result := make([]Container, 0, len(containers))
	for _, cont := range containers {
		created := time.Unix(cont.Created, 0)
		// Skip containers that have been exited for more than a day
		if cont.State == "exited" && time.Since(created) > 24*time.Hour {
			continue
		}

		name := ""
		if len(cont.Names) > 0 {
			name = strings.TrimPrefix(cont.Names[0], "/")
		}

		id := cont.ID
		if len(id) > 12 {
			id = id[:12]
		}

		result = append(result, Container{
			ID:             id,
			Name:           name,
			Status:         cont.Status,
			State:          cont.State,
			ComposeProject: cont.Labels[LabelComposeProject],
			ComposeService: cont.Labels[LabelComposeService],
			Image:          cont.Image,
			Created:        created,
		})
	}

	return result, nil
}

// FindContainers lists containers and returns the ones matching names
func (c *Client) FindContainers(ctx context.Context, names []string) ([]Container, error) {
	containers, err := c.ListContainers(ctx)
	if err != nil {
		return nil, err
	}
	return MatchContainers(containers, names), nil
}
