package common

import "time"

const (
	DEFAULT_CLUSTER_NAME = "cost-optimized-cluster"
	DEFAULT_ZONE         = "us-central1-b"
	DEFAULT_MACHINE_TYPE = "e2-standard-2"
	DEFAULT_NODE_COUNT   = 0
	DEFAULT_DISK_SIZE_GB = 20
	DEFAULT_DISK_TYPE    = "pd-standard"
	DEFAULT_IMAGE_TYPE   = "COS_CONTAINERD"

	DEFAULT_NODE_POOL_NAME = "default-pool"

	CREATE_POLL_INTERVAL = 30 * time.Second
	CREATE_POLL_TIMEOUT  = 30 * time.Minute
	SCALE_POLL_INTERVAL  = 10 * time.Second
	SCALE_POLL_TIMEOUT   = 20 * time.Minute
	DELETE_POLL_INTERVAL = 30 * time.Second
	DELETE_POLL_TIMEOUT  = 30 * time.Minute
)
