// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/FlorianSegard/blockchainProject/keystore"
	"github.com/spf13/cobra"
)

func keygenCommand() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signing key pair",
		Long: "Generate an ed25519 key pair, writing <out>.skey and " +
			"<out>.vkey, and print the account address",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keystore.Generate()
			if err != nil {
				return err
			}
			if err := key.Save(outFile + ".skey"); err != nil {
				return err
			}
			if err := keystore.SaveVerificationKey(
				outFile+".vkey",
				key.VerificationKey(),
			); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key.Address().String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "chirp", "output file prefix")
	return cmd
}
