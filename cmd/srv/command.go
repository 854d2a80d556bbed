package main

import "github.com/urfave/cli/v2"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "Path to the configuration file",
	Value:   "config.toml",
	EnvVars: []string{"CONFIG_FILE"},
}

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "questparty"
	app.Usage = "Group matchmaking backend"
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Flags:       []cli.Flag{configFlag},
			Category:    "Api",
			Description: `Serves every api, including the party chat websocket.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Apply database migrations",
			Flags:       []cli.Flag{configFlag},
			Category:    "Database",
			Description: `Applies the embedded SQL migrations against the configured database.`,
		},
	}

	s.app = app
}
