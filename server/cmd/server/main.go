package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/gridduel/server/core"
	"github.com/automoto/gridduel/shared/netconfig"
	"github.com/automoto/gridduel/shared/protocol"
)

func main() {
	port := flag.Uint("port", netconfig.DefaultRelayPort, "Relay port")
	name := flag.String("name", "Grid Duel Relay", "Relay display name")
	version := flag.String("version", protocol.Version, "Required client version (empty = accept any)")
	maxPeers := flag.Int("maxpeers", 64, "Maximum seated peers (0 = unlimited)")
	master := flag.String("master", "", "Master server URL to register with (empty = unlisted)")
	public := flag.String("public", "", "Address clients should dial, host:port (default localhost:<port>)")
	region := flag.String("region", "", "Region shown in the server browser")
	flag.Parse()

	server := core.NewServer(*name, *version, *maxPeers)

	var reg *core.Registration
	if *master != "" {
		address := *public
		if address == "" {
			address = fmt.Sprintf("localhost:%d", *port)
		}
		reg = core.NewRegistration(*master, *name, address, *version, *region, *maxPeers, server)
		reg.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down relay...")
		if reg != nil {
			reg.Stop()
		}
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting relay %q on port %d (version: %s, room size: %d)",
		*name, *port, *version, netconfig.RoomCapacity)
	if err := server.Start(*port); err != nil {
		log.Fatalf("Relay error: %v", err)
	}
}
