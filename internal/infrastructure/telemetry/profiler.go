package telemetry

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilingSettings configures continuous profiling with Pyroscope
type ProfilingSettings struct {
	Enabled       bool
	ServerAddress string
	AuthUser      string
	AuthPassword  string
	Types         []string // cpu, alloc_objects, alloc_space, inuse_objects, inuse_space, goroutines, mutex, block
}

var profileTypes = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"inuse_objects": {pyroscope.ProfileInuseObjects},
	"inuse_space":   {pyroscope.ProfileInuseSpace},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// parseProfileTypes resolves configured names, rejecting unknown ones
func parseProfileTypes(names []string) ([]pyroscope.ProfileType, error) {
	var out []pyroscope.ProfileType
	for _, name := range names {
		types, ok := profileTypes[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown profile type %q", name)
		}
		out = append(out, types...)
	}
	return out, nil
}

func startProfiler(s Settings, logger *zap.Logger) (*pyroscope.Profiler, error) {
	if s.Profiling.ServerAddress == "" {
		return nil, fmt.Errorf("profiling needs a server address")
	}
	types, err := parseProfileTypes(s.Profiling.Types)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		types = pyroscope.DefaultProfileTypes
	}
	for _, t := range types {
		switch t {
		case pyroscope.ProfileMutexCount:
			runtime.SetMutexProfileFraction(5)
		case pyroscope.ProfileBlockCount:
			runtime.SetBlockProfileRate(5)
		}
	}

	tags := map[string]string{}
	if s.Environment != "" {
		tags["env"] = s.Environment
	}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}

	return pyroscope.Start(pyroscope.Config{
		ApplicationName:   s.ServiceName,
		ServerAddress:     s.Profiling.ServerAddress,
		BasicAuthUser:     s.Profiling.AuthUser,
		BasicAuthPassword: s.Profiling.AuthPassword,
		Logger:            logger.Named("pyroscope").Sugar(),
		Tags:              tags,
		ProfileTypes:      types,
	})
}
