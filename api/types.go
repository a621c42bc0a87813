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

package api

// HealthResponse is returned by GET /health
type HealthResponse struct {
	IsHealthy bool   `json:"is_healthy"`
	Seq       uint64 `json:"seq"`
}

// SubmitTxRequest is the JSON form of POST /api/v1/tx
type SubmitTxRequest struct {
	Tx string `json:"tx"`
}

// SubmitTxResponse describes an applied transaction. ID is set for
// entrypoints that assign one.
type SubmitTxResponse struct {
	ID     *uint64 `json:"id,omitempty"`
	TxHash string  `json:"tx_hash"`
	Seq    uint64  `json:"seq"`
}

type TweetResponse struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	ID        uint64 `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Deleted   bool   `json:"deleted"`
}

type ProfileResponse struct {
	Address           string `json:"address"`
	Username          string `json:"username"`
	Bio               string `json:"bio"`
	ProfileID         uint64 `json:"profile_id"`
	RegisteredAt      int64  `json:"registered_at"`
	UsernameChangedAt int64  `json:"username_changed_at"`
	BioChangedAt      int64  `json:"bio_changed_at"`
	Deposit           uint64 `json:"deposit"`
	Deleted           bool   `json:"deleted"`
	Banned            bool   `json:"banned"`
}

type AccountResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type OracleRequestResponse struct {
	Subject     string `json:"subject"`
	Requester   string `json:"requester"`
	RequestedAt int64  `json:"requested_at"`
}

// ParamsResponse is returned by GET /api/v1/params
type ParamsResponse struct {
	OraclePublicKey string `json:"oracle_public_key"`
	DepositAmount   uint64 `json:"deposit_amount"`
}

// FacadeResponse is returned by the server-signed routes
type FacadeResponse struct {
	ID            *uint64 `json:"id,omitempty"`
	Message       string  `json:"message"`
	OperationHash string  `json:"operation_hash"`
}

type TweetsResponse struct {
	Tweets []TweetResponse `json:"tweets"`
}

// ErrorResponse is the body of every failed request. Reason carries the
// contract rejection reason verbatim.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Reason     string `json:"reason,omitempty"`
	Message    string `json:"message"`
}
