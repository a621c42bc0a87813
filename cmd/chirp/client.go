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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/client"
	"github.com/FlorianSegard/blockchainProject/keystore"
	"github.com/FlorianSegard/blockchainProject/tx"
	"github.com/spf13/cobra"
)

const envAPIURL = "CHIRP_API_URL"

type clientFlags struct {
	keyFile string
	apiURL  string
}

func (f *clientFlags) bind(cmd *cobra.Command, withKey bool) {
	defaultURL := os.Getenv(envAPIURL)
	if defaultURL == "" {
		defaultURL = client.DefaultAPIURL
	}
	cmd.Flags().StringVar(&f.apiURL, "api", defaultURL, "chirp API URL")
	if withKey {
		cmd.Flags().StringVar(&f.keyFile, "key", "", "signing key file")
		_ = cmd.MarkFlagRequired("key")
	} else {
		cmd.Flags().StringVar(&f.keyFile, "key", "", "signing key file used to pick the default address")
	}
}

func (f *clientFlags) client() *client.Client {
	return client.NewClient(f.apiURL)
}

func (f *clientFlags) key() (*keystore.SigningKey, error) {
	if f.keyFile == "" {
		return nil, errors.New("--key is required")
	}
	return keystore.LoadSigningKey(f.keyFile)
}

// addressArg parses args[0] when present, or falls back to the --key
// account
func (f *clientFlags) addressArg(args []string) (address.Address, error) {
	if len(args) > 0 {
		return address.Parse(args[0])
	}
	key, err := f.key()
	if err != nil {
		return address.Zero, err
	}
	return key.Address(), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// callCommand builds a command that signs one entrypoint call with --key
func callCommand(
	use string,
	short string,
	args cobra.PositionalArgs,
	target address.Address,
	entrypoint string,
	build func(cmd *cobra.Command, c *client.Client, args []string) (uint64, any, error),
) *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := flags.key()
			if err != nil {
				return err
			}
			c := flags.client()
			amount, params, err := build(cmd, c, args)
			if err != nil {
				return err
			}
			resp, err := c.Call(cmd.Context(), key, target, entrypoint, amount, params)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func registerCommand() *cobra.Command {
	var username, bio string
	var amount uint64
	cmd := callCommand(
		"register",
		"Create a profile, locking the registration deposit",
		cobra.NoArgs,
		tx.RegistryAddress,
		tx.EntrypointRegister,
		func(cmd *cobra.Command, c *client.Client, _ []string) (uint64, any, error) {
			if amount == 0 {
				params, err := c.Params(cmd.Context())
				if err != nil {
					return 0, nil, err
				}
				amount = params.DepositAmount
			}
			return amount, &tx.RegisterParams{Username: username, Bio: bio}, nil
		},
	)
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&bio, "bio", "", "profile bio")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "deposit to attach (default: the ledger's deposit amount)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func postCommand() *cobra.Command {
	return callCommand(
		"post <content>",
		"Post a tweet",
		cobra.ExactArgs(1),
		tx.TweetStoreAddress,
		tx.EntrypointPostTweet,
		func(_ *cobra.Command, _ *client.Client, args []string) (uint64, any, error) {
			return 0, &tx.PostTweetParams{Content: args[0]}, nil
		},
	)
}

func deleteTweetCommand() *cobra.Command {
	return callCommand(
		"delete-tweet <id>",
		"Delete one of your tweets",
		cobra.ExactArgs(1),
		tx.TweetStoreAddress,
		tx.EntrypointDeleteTweet,
		func(_ *cobra.Command, _ *client.Client, args []string) (uint64, any, error) {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid tweet id %q: %w", args[0], err)
			}
			return 0, &tx.DeleteTweetParams{TweetID: id}, nil
		},
	)
}

func changeUsernameCommand() *cobra.Command {
	return callCommand(
		"change-username <username>",
		"Change your username",
		cobra.ExactArgs(1),
		tx.RegistryAddress,
		tx.EntrypointChangeUsername,
		func(_ *cobra.Command, _ *client.Client, args []string) (uint64, any, error) {
			return 0, &tx.ChangeUsernameParams{Username: args[0]}, nil
		},
	)
}

func changeBioCommand() *cobra.Command {
	return callCommand(
		"change-bio <bio>",
		"Change your bio",
		cobra.ExactArgs(1),
		tx.RegistryAddress,
		tx.EntrypointChangeBio,
		func(_ *cobra.Command, _ *client.Client, args []string) (uint64, any, error) {
			return 0, &tx.ChangeBioParams{Bio: args[0]}, nil
		},
	)
}

func deleteUserCommand() *cobra.Command {
	return callCommand(
		"delete-user",
		"Delete your profile and get the deposit back",
		cobra.NoArgs,
		tx.RegistryAddress,
		tx.EntrypointDeleteUser,
		func(_ *cobra.Command, _ *client.Client, _ []string) (uint64, any, error) {
			return 0, nil, nil
		},
	)
}

func transferCommand() *cobra.Command {
	return callCommand(
		"transfer <address> <amount>",
		"Send currency to another account",
		cobra.ExactArgs(2),
		tx.NativeAddress,
		tx.EntrypointTransfer,
		func(_ *cobra.Command, _ *client.Client, args []string) (uint64, any, error) {
			to, err := address.Parse(args[0])
			if err != nil {
				return 0, nil, err
			}
			amount, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			return amount, &tx.TransferParams{To: to.Bytes()}, nil
		},
	)
}

func tweetsCommand() *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:   "tweets",
		Short: "List all tweets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tweets, err := flags.client().Tweets(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, tweets)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func accountCommand() *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:   "account [address]",
		Short: "Show an account's balance and nonce",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := flags.addressArg(args)
			if err != nil {
				return err
			}
			acct, err := flags.client().Account(cmd.Context(), addr)
			if err != nil {
				return err
			}
			return printJSON(cmd, acct)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func profileCommand() *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:   "profile [address]",
		Short: "Show an account's profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := flags.addressArg(args)
			if err != nil {
				return err
			}
			profile, err := flags.client().Profile(cmd.Context(), addr)
			if err != nil {
				return err
			}
			if profile == nil {
				return fmt.Errorf("no profile for %s", addr)
			}
			return printJSON(cmd, profile)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func clientCommands() []*cobra.Command {
	return []*cobra.Command{
		registerCommand(),
		postCommand(),
		tweetsCommand(),
		deleteTweetCommand(),
		changeUsernameCommand(),
		changeBioCommand(),
		deleteUserCommand(),
		transferCommand(),
		accountCommand(),
		profileCommand(),
	}
}
