package instance

import "github.com/angelmondragon/textilehouse-backend/pkg/env"

// GetID returns the process instance identifier used in lock ownership tokens.
func GetID() string {
	return env.First("instance-0", "TEXTILEHOUSE_INSTANCE_ID", "WORKER_ID", "HOSTNAME")
}
