// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package models

// LatencyModel gives the delay, in nanoseconds, between a command being
// sent and the venue processing it.
type LatencyModel struct {
	base   uint64
	insert uint64
	update uint64
	delete uint64
}

func NewLatencyModel(cfg LatencyConfig) *LatencyModel {
	return &LatencyModel{
		base:   cfg.Base.Nanos(),
		insert: cfg.Insert.Nanos(),
		update: cfg.Update.Nanos(),
		delete: cfg.Delete.Nanos(),
	}
}

func (l *LatencyModel) BaseLatency() uint64   { return l.base }
func (l *LatencyModel) InsertLatency() uint64 { return l.base + l.insert }
func (l *LatencyModel) UpdateLatency() uint64 { return l.base + l.update }
func (l *LatencyModel) DeleteLatency() uint64 { return l.base + l.delete }
