// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"code.vegaprotocol.io/simex/config"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	Output string `short:"o" long:"output" description:"Path of the configuration file to generate" default:"config.toml"`
	Force  bool   `short:"f" long:"force" description:"Erase the existing configuration file"`
}

var initCmd InitCmd

func Init(ctx context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}
	_, err := parser.AddCommand("init", "Generate a default configuration", "Generate the default configuration of the simulated venue as TOML", &initCmd)
	return err
}

func (opts *InitCmd) Execute(_ []string) error {
	if _, err := os.Stat(opts.Output); err == nil && !opts.Force {
		return fmt.Errorf("configuration already exists at `%v` please remove it first or re-run using -f", opts.Output)
	}

	buf := new(bytes.Buffer)
	if err := config.Write(buf, config.NewDefaultConfig()); err != nil {
		return err
	}
	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Printf("configuration generated successfully at %s\n", opts.Output)
	return nil
}
