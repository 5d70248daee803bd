// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()
	assert.True(t, strings.HasPrefix(info, "meddoc-anonymizer "+Version))
	assert.Contains(t, info, Platform)
	assert.Equal(t, Version, Short())
}

func TestFull_ExplicitCommit(t *testing.T) {
	saved := GitCommit
	t.Cleanup(func() { GitCommit = saved })

	GitCommit = "abc1234"
	full := Full()
	assert.Equal(t, "abc1234", full["commit"])
	assert.Len(t, full, 5)
}
