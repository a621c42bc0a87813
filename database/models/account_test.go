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

import (
	"strings"
	"testing"

	"github.com/FlorianSegard/blockchainProject/address"
)

func TestAccount_String(t *testing.T) {
	tests := []struct {
		name    string
		address []byte
		wantErr bool
	}{
		{
			name:    "contract address",
			address: address.Contract("registry").Bytes(),
		},
		{
			name:    "empty address",
			address: nil,
			wantErr: true,
		},
		{
			name:    "short address",
			address: []byte{0xde, 0xad},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{Address: tt.address}
			got, err := a.String()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if !strings.HasPrefix(got, address.Hrp+"1") {
				t.Fatalf("unexpected encoding: %s", got)
			}
		})
	}
}

func TestOracleRequestAnswered(t *testing.T) {
	r := &OracleRequest{}
	if r.Answered() {
		t.Fatal("new request should not be answered")
	}
	v := false
	r.Result = &v
	if !r.Answered() {
		t.Fatal("request with result should be answered")
	}
}
