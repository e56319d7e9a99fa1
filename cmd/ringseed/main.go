// Package main implements ringseed, a development seed server that publishes
// a static token-range topology over the describe-ring endpoint.
//
// A real cluster's nodes answer describe-ring from gossip state; ringseed
// stands in for them during local development and integration testing so a
// ring cache can be exercised end to end without a cluster.
//
// HTTP API:
//   - GET /ring/{keyspace} - range descriptors for the keyspace (404 if unknown)
//   - GET /health          - liveness check
//
// Configuration:
//   - RINGSEED_ADDR:     Listen address (default: ":9160")
//   - RINGSEED_TOPOLOGY: Path to the topology file (default: "topology.json")
//
// The topology file maps keyspace names to range descriptors:
//
//	{
//	  "keyspaces": {
//	    "events": [
//	      {"start_token": "0", "end_token": "25", "endpoints": ["10.0.0.1:9160"]},
//	      {"start_token": "25", "end_token": "0", "endpoints": ["10.0.0.2:9160"]}
//	    ]
//	  }
//	}
//
// Example usage:
//
//	RINGSEED_ADDR=:19160 RINGSEED_TOPOLOGY=ring.json ./ringseed
//	curl localhost:19160/ring/events
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/exp/slices"

	"github.com/dreamware/ringcache/internal/cluster"
)

// topologyFile is the on-disk shape of the served topology.
type topologyFile struct {
	Keyspaces map[string][]cluster.RangeDescriptor `json:"keyspaces"`
}

func main() {
	addr := getenv("RINGSEED_ADDR", ":9160")
	path := getenv("RINGSEED_TOPOLOGY", "topology.json")

	topo, err := loadTopology(path)
	if err != nil {
		log.Fatalf("load topology: %v", err)
	}

	names := make([]string, 0, len(topo.Keyspaces))
	for name := range topo.Keyspaces {
		names = append(names, name)
	}
	slices.Sort(names)

	srv := &seedServer{topo: topo}
	mux := http.NewServeMux()
	mux.HandleFunc("/ring/", srv.handleDescribeRing)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("ringseed listening on %s, serving keyspaces %v", addr, names)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	log.Println("ringseed stopped")
}

// loadTopology reads and validates the topology file. Every range must carry
// at least one endpoint; serving an endpoint-less range would violate the
// describe-ring contract that caches rely on.
func loadTopology(path string) (*topologyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var topo topologyFile
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, err
	}
	for name, ranges := range topo.Keyspaces {
		if len(ranges) == 0 {
			return nil, fmt.Errorf("keyspace %q has no ranges", name)
		}
		for _, r := range ranges {
			if len(r.Endpoints) == 0 {
				return nil, fmt.Errorf("keyspace %q range (%s,%s] has no endpoints", name, r.StartToken, r.EndToken)
			}
		}
	}
	return &topo, nil
}

type seedServer struct {
	topo *topologyFile
}

func (s *seedServer) handleDescribeRing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	keyspace := strings.TrimPrefix(r.URL.Path, "/ring/")
	if keyspace == "" {
		http.Error(w, "keyspace required", http.StatusBadRequest)
		return
	}
	ranges, ok := s.topo.Keyspaces[keyspace]
	if !ok {
		http.Error(w, "unknown keyspace", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(cluster.DescribeRingResponse{Ranges: ranges})
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
