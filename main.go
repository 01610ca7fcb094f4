package main

import (
	"fmt"
	"os"

	appproviders "github.com/armature-go/armature/app/providers"
	"github.com/armature-go/armature/framework/app"
	"github.com/armature-go/armature/framework/container"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "armature:", err)
		os.Exit(1)
	}
}

func run() error {
	application, err := app.New() // loads .env
	if err != nil {
		return err
	}

	for _, provider := range []container.ServiceProvider{
		&appproviders.AppServiceProvider{},
		&appproviders.TaskServiceProvider{},
		&appproviders.RouteServiceProvider{},
	} {
		if err := application.Register(provider); err != nil {
			return err
		}
	}

	return application.Run()
}
