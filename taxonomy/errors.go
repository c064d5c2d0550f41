// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
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

package taxonomy

import "errors"

var (
	ErrUnknownStatement = errors.New("unknown statement type")
	ErrNoGroups         = errors.New("taxonomy must contain at least one group")
	ErrEmptyGroupName   = errors.New("group name cannot be empty")
	ErrDuplicateGroup   = errors.New("duplicate group name")
	ErrEmptyGroup       = errors.New("group must contain at least one metric")
	ErrEmptyMetricKey   = errors.New("metric key cannot be empty")
	ErrDuplicateMetric  = errors.New("duplicate metric key")
)
