package common

import (
	"os"
)

var (
	serviceName     string
	serviceInstance string
)

func GetServiceName() string {
	if serviceName == "" {
		serviceName = os.Getenv("SERVICE_NAME")
		if serviceName == "" {
			serviceName = "testhub"
		}
	}
	return serviceName
}

func GetServiceInstance() string {
	if serviceInstance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serviceInstance = hostname
	}
	return serviceInstance
}
