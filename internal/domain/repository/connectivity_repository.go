package repository

import "context"

// ConnectivityChecker defines the interface for the network-status
// collaborator consulted before a sync run starts
type ConnectivityChecker interface {
	IsConnected(ctx context.Context) bool
}
