package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/thermolog-dev/thermolog/pkg/schema"
	"github.com/thermolog-dev/thermolog/pkg/sdk"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	addr := os.Getenv("THERMOLOG_ADDR")
	if addr == "" {
		addr = "http://localhost:8080"
	}

	client := sdk.New(addr)
	if token := os.Getenv("THERMOLOG_TOKEN"); token != "" {
		client.SetToken(token)
	}

	command := strings.ToUpper(os.Args[1])
	args := os.Args[2:]

	switch command {
	case "REGISTER":
		if len(args) < 3 {
			log.Fatal("Usage: thermolog REGISTER <username> <email> <password>")
		}
		if err := client.Register(args[0], args[1], args[2]); err != nil {
			log.Fatal(err)
		}
		fmt.Println("OK")

	case "LOGIN":
		if len(args) < 2 {
			log.Fatal("Usage: thermolog LOGIN <username> <password>")
		}
		resp, err := client.Login(args[0], args[1])
		if err != nil {
			log.Fatal(err)
		}
		printJSON(resp)

	case "PROFILE":
		profile, err := client.Profile()
		if err != nil {
			log.Fatal(err)
		}
		printJSON(profile)

	case "INGEST":
		if len(args) < 2 {
			log.Fatal("Usage: thermolog INGEST <sensor_id> <temperature> [humidity]")
		}
		temp, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			log.Fatalf("Invalid temperature: %v", err)
		}
		req := schema.IngestRequest{SensorID: args[0], Temperature: &temp}
		if len(args) >= 3 {
			hum, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				log.Fatalf("Invalid humidity: %v", err)
			}
			req.Humidity = &hum
		}
		reading, err := client.AddReading(req)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(reading)

	case "QUERY":
		if len(args) < 2 {
			log.Fatal("Usage: thermolog QUERY <sensor_id> <timeframe> [date]")
		}
		date := ""
		if len(args) >= 3 {
			date = args[2]
		}
		result, err := client.Temperature(args[0], args[1], date)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(result)

	case "SENSORS":
		sensors, err := client.Sensors()
		if err != nil {
			log.Fatal(err)
		}
		printJSON(sensors)

	case "USERS":
		users, err := client.Users()
		if err != nil {
			log.Fatal(err)
		}
		printJSON(users)

	case "SETTINGS":
		settings, err := client.Settings()
		if err != nil {
			log.Fatal(err)
		}
		printJSON(settings)

	case "SET_SETTING":
		if len(args) < 2 {
			log.Fatal("Usage: thermolog SET_SETTING <key> <value>")
		}
		setting, err := client.UpdateSetting(args[0], schema.SettingUpdateRequest{Value: &args[1]})
		if err != nil {
			log.Fatal(err)
		}
		printJSON(setting)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Thermolog CLI - Interface for thermologd")
	fmt.Println("\nUsage:")
	fmt.Println("  thermolog REGISTER <username> <email> <password>")
	fmt.Println("  thermolog LOGIN <username> <password>")
	fmt.Println("  thermolog PROFILE")
	fmt.Println("  thermolog INGEST <sensor_id> <temperature> [humidity]")
	fmt.Println("  thermolog QUERY <sensor_id> <timeframe> [date]")
	fmt.Println("  thermolog SENSORS")
	fmt.Println("  thermolog USERS")
	fmt.Println("  thermolog SETTINGS")
	fmt.Println("  thermolog SET_SETTING <key> <value>")
	fmt.Println("\nEnvironment Variables:")
	fmt.Println("  THERMOLOG_ADDR    Server base URL (default: http://localhost:8080)")
	fmt.Println("  THERMOLOG_TOKEN   Access token for authenticated commands")
}

func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(raw))
}
