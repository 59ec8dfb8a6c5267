// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// SaveBundle serializes b and writes it to path through a writable
// memory mapping sized to the exact serialized length, the same
// mmap acquire/write/unmap lifecycle used for memory-mapped reads,
// here turned around for writing.
func SaveBundle(b *ScriptBundle, path string, opts *WriteOptions) error {
	data, err := WriteBundle(b, opts)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Truncate(int64(len(data))); err != nil {
		return err
	}

	m, err := mmap.MapRegion(f, len(data), mmap.RDWR, 0, 0)
	if err != nil {
		return err
	}
	defer m.Unmap()

	copy(m, data)
	return m.Flush()
}
