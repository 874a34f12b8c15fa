// Command client is an interactive terminal client for the cafe's line
// protocol. It relays stdin lines to the server and prints every barista
// reply, including asynchronous readiness announcements.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
)

var addr string

var rootCmd = &cobra.Command{
	Use:   "client",
	Short: "Interactive customer client for the virtual cafe",
	Long: `Connects to the cafe's TCP endpoint and relays your input line by line.
Introduce yourself first, then use:

  place_order <teas> <coffees>
  order_status
  collect
  exit`,
	RunE: runClient,
}

func init() {
	rootCmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:2610", "cafe server address")
}

func runClient(cmd *cobra.Command, _ []string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to cafe at %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	cmd.SilenceUsage = true

	// Server lines arrive at any time, readiness pushes included, so they
	// are printed from a dedicated goroutine.
	done := make(chan struct{})
	go func() {
		defer close(done)
		server := bufio.NewScanner(conn)
		for server.Scan() {
			fmt.Println(server.Text())
		}
	}()

	input := bufio.NewScanner(os.Stdin)
	for input.Scan() {
		if _, err := fmt.Fprintln(conn, input.Text()); err != nil {
			break
		}
	}

	_ = conn.Close()
	<-done
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
