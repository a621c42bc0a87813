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

// Counter is a named monotonic counter owned by one component
type Counter struct {
	Owner string `gorm:"uniqueIndex:idx_counter_owner_name;size:32"`
	Name  string `gorm:"uniqueIndex:idx_counter_owner_name;size:32"`
	ID    uint   `gorm:"primarykey"`
	Value uint64
}

func (Counter) TableName() string {
	return "counter"
}
