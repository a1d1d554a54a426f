package models

import (
	"strconv"
	"strings"
)

// ParseQueueParameters converts form text into QueueParameters.
// Only the numeric conversion happens here; domain checks belong to the resolver.
// An empty servers field defaults to one server.
func ParseQueueParameters(arrival, service, servers, capacity string) (QueueParameters, error) {
	lambda, err := parseFloat("arrival_rate", arrival)
	if err != nil {
		return QueueParameters{}, err
	}
	mu, err := parseFloat("service_rate", service)
	if err != nil {
		return QueueParameters{}, err
	}
	c := 1
	if s := strings.TrimSpace(servers); s != "" {
		c, err = strconv.Atoi(s)
		if err != nil {
			return QueueParameters{}, &InvalidParameterError{Param: "servers", Value: servers, Reason: "must be an integer"}
		}
	}
	k, err := ParseCapacity(capacity)
	if err != nil {
		return QueueParameters{}, err
	}
	return QueueParameters{ArrivalRate: lambda, ServiceRate: mu, Servers: c, Capacity: k}, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &InvalidParameterError{Param: name, Value: s, Reason: "must be a number"}
	}
	return v, nil
}
