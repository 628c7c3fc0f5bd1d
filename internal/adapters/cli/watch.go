package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/gridfleet-go/internal/adapters/ws"
	simQueries "github.com/andrescamacho/gridfleet-go/internal/application/sim/queries"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream simulation events from the daemon",
		Long: `Connect to the daemon's websocket and print every event as it arrives.
A state_update lands immediately on connect; the rest follow as the
simulation runs. Press Ctrl+C to disconnect.

Examples:
  gridfleet watch
  gridfleet watch --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)

			u := url.URL{Scheme: "ws", Host: daemonAddr, Path: "/ws"}
			fmt.Printf("Connecting to %s\n", u.String())

			conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer conn.Close()

			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					_, message, err := conn.ReadMessage()
					if err != nil {
						return
					}
					printEvent(message, raw)
				}
			}()

			select {
			case <-done:
				return fmt.Errorf("connection closed by daemon")
			case <-interrupt:
				// Ask for a clean close, then give the daemon a moment
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				select {
				case <-done:
				case <-time.After(time.Second):
				}
				fmt.Println("\nDisconnected")
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print full event payloads")

	return cmd
}

// printEvent prints one inbound frame, one line per event unless raw
func printEvent(message []byte, raw bool) {
	stamp := time.Now().Format("15:04:05")

	var envelope ws.Envelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		fmt.Printf("%s  <unparseable frame, %d bytes>\n", stamp, len(message))
		return
	}

	if raw {
		fmt.Printf("%s  %s  %s\n", stamp, envelope.Event, string(envelope.Data))
		return
	}
	fmt.Printf("%s  %-24s %s\n", stamp, envelope.Event, summarize(envelope))
}

// summarize renders a short description of the event payload
func summarize(envelope ws.Envelope) string {
	switch envelope.Event {
	case ws.EventRobotsUpdate:
		var robots simQueries.GetRobotsResponse
		if json.Unmarshal(envelope.Data, &robots) == nil {
			atGoal := 0
			for _, r := range robots.Robots {
				if r.ReachedGoal {
					atGoal++
				}
			}
			return fmt.Sprintf("%d robots, %d at goal", len(robots.Robots), atGoal)
		}
	case ws.EventPackagesUpdate:
		var packages simQueries.GetPackagesResponse
		if json.Unmarshal(envelope.Data, &packages) == nil {
			return fmt.Sprintf("%d active, %d delivered", len(packages.ActivePackages), packages.TotalDelivered)
		}
	case ws.EventStateUpdate:
		var state simQueries.StateUpdateDTO
		if json.Unmarshal(envelope.Data, &state) == nil {
			return fmt.Sprintf("%dx%d grid, %d robots, %d active packages",
				state.GridSize.Width, state.GridSize.Height, len(state.Robots), state.ActivePackages)
		}
	case ws.EventPackageAssigned:
		var assigned struct {
			PackageID int `json:"package_id"`
			Robot     struct {
				ID int `json:"id"`
			} `json:"robot"`
		}
		if json.Unmarshal(envelope.Data, &assigned) == nil {
			return fmt.Sprintf("package %d -> robot %d", assigned.PackageID, assigned.Robot.ID)
		}
	case ws.EventSimulationStopped:
		var stopped ws.StoppedDTO
		if json.Unmarshal(envelope.Data, &stopped) == nil {
			return stopped.Reason
		}
	case ws.EventError:
		var wsErr ws.ErrorDTO
		if json.Unmarshal(envelope.Data, &wsErr) == nil {
			return wsErr.Message
		}
	}
	return fmt.Sprintf("%d bytes", len(envelope.Data))
}
