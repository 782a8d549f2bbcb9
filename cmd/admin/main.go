// Command admin runs out-of-band administrative tasks against the
// identity provider, primarily re-driving identity deletions that the
// account-deletion flow logged and swallowed. The task is the same JSON
// shape the old cleanup function accepted:
//
//	admin -task '{"queryType":"cognito_delete","userId":"..."}'
//
// With no -task flag the task is read from stdin.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/opaldesk/accounts-backend/config"
	"github.com/opaldesk/accounts-backend/internal/service"
)

func main() {
	taskJSON := flag.String("task", "", "administrative task as JSON")
	flag.Parse()

	raw := []byte(*taskJSON)
	if len(raw) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read task from stdin: %v", err)
		}
		raw = data
	}

	var task service.AdminTask
	if err := json.Unmarshal(raw, &task); err != nil {
		log.Fatalf("Invalid task JSON: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	cognitoCfg, err := config.NewCognitoConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build identity provider client: %v", err)
	}

	admin := service.NewAdminService(service.NewCognitoService(cognitoCfg))
	result, err := admin.Run(ctx, task)
	if err != nil {
		log.Fatalf("Task failed: %v", err)
	}

	out, _ := json.Marshal(result)
	os.Stdout.Write(append(out, '\n'))
}
