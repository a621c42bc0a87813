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
	"github.com/FlorianSegard/blockchainProject/address"
	"github.com/FlorianSegard/blockchainProject/contract/botoracle"
	"github.com/FlorianSegard/blockchainProject/tx"
	"github.com/spf13/cobra"
)

func oracleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Bot oracle operations",
	}
	cmd.AddCommand(oraclePendingCommand())
	cmd.AddCommand(oracleAnswerCommand())
	return cmd
}

func oraclePendingCommand() *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List bot checks waiting for a verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := flags.client().PendingOracleRequests(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, pending)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

// oracleAnswerCommand submits a verdict signed by hand. --key must be the
// oracle key the ledger was started with.
func oracleAnswerCommand() *cobra.Command {
	var flags clientFlags
	var subjectStr, requesterStr string
	var isBot bool
	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Sign and submit a bot check verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := flags.key()
			if err != nil {
				return err
			}
			subject, err := address.Parse(subjectStr)
			if err != nil {
				return err
			}
			requester, err := address.Parse(requesterStr)
			if err != nil {
				return err
			}
			msg, sig, err := botoracle.SignVerdict(
				key.PrivateKey(),
				subject,
				requester,
				isBot,
			)
			if err != nil {
				return err
			}
			resp, err := flags.client().Call(
				cmd.Context(),
				key,
				tx.BotOracleAddress,
				tx.EntrypointReceiveResult,
				0,
				&tx.ReceiveResultParams{
					Subject:   subject.Bytes(),
					Requester: requester.Bytes(),
					Message:   msg,
					Signature: sig,
				},
			)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().StringVar(&subjectStr, "subject", "", "account being checked")
	cmd.Flags().StringVar(&requesterStr, "requester", tx.RegistryAddress.String(), "account that requested the check")
	cmd.Flags().BoolVar(&isBot, "bot", false, "judge the subject a bot")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
