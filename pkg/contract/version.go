// Copyright © 2026 Lattice Labs
//
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

package contract

import "fmt"

// Version is a parsed "major.minor" ABI version (spec.md §4.2). Recognized
// values in practice are 1.0, 2.0, 2.1, 2.2, 2.3 and 2.4.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than o.
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		if v.Major < o.Major {
			return -1
		}
		return 1
	}
	if v.Minor != o.Minor {
		if v.Minor < o.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// AtLeast reports whether v >= o.
func (v Version) AtLeast(o Version) bool { return v.Compare(o) >= 0 }

var (
	V1_0 = Version{1, 0}
	V2_0 = Version{2, 0}
	V2_1 = Version{2, 1}
	V2_2 = Version{2, 2}
	V2_3 = Version{2, 3}
	V2_4 = Version{2, 4}
)

// supportedVersions is the set recognized by the loader (spec.md §4.2).
var supportedVersions = []Version{V1_0, V2_0, V2_1, V2_2, V2_3, V2_4}

func isSupportedVersion(v Version) bool {
	for _, sv := range supportedVersions {
		if sv == v {
			return true
		}
	}
	return false
}

// HasFieldsSection reports whether this version recognizes the fields[]
// section (first in 2.1).
func (v Version) HasFieldsSection() bool { return v.AtLeast(V2_1) }

// UsesFixedLayout reports whether this version uses the fixed-layout
// encoder of spec.md §4.5 (>= 2.2) versus the legacy overflow-only encoder.
func (v Version) UsesFixedLayout() bool { return v.AtLeast(V2_2) }

// UsesDestinationBoundSigning reports whether this version uses the
// destination-bound signing preimage of spec.md §4.8 (>= 2.3).
func (v Version) UsesDestinationBoundSigning() bool { return v.AtLeast(V2_3) }

// SupportsInitAttribute reports whether Param.Init is recognized (>= 2.4).
func (v Version) SupportsInitAttribute() bool { return v.AtLeast(V2_4) }

// SupportsRefType reports whether the ref(T) type is accepted (>= 2.4).
func (v Version) SupportsRefType() bool { return v.AtLeast(V2_4) }

// FixedBytesDeprecated reports whether fixedbytes<N> is deprecated for new
// encodes under strict mode (spec.md §4.2, §7) - true from 2.4 onward.
func (v Version) FixedBytesDeprecated() bool { return v.AtLeast(V2_4) }

// DefaultSetTime is the "time" header presence default when the document
// omits setTime entirely: present from 2.0 onward, absent in 1.0.
func (v Version) DefaultSetTime() bool { return v.AtLeast(V2_0) }
