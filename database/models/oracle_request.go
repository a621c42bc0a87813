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

package models

// OracleRequest is a bot check requested by a contract for a subject.
// Result stays NULL until the oracle answers.
type OracleRequest struct {
	Result      *bool
	Subject     []byte `gorm:"uniqueIndex:idx_oracle_request_pair;size:28"`
	Requester   []byte `gorm:"uniqueIndex:idx_oracle_request_pair;size:28"`
	ID          uint   `gorm:"primarykey"`
	RequestedAt int64
	AnsweredAt  int64
}

func (OracleRequest) TableName() string {
	return "oracle_request"
}

func (r *OracleRequest) Answered() bool {
	return r.Result != nil
}
