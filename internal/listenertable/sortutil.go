/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package listenertable

import "slices"

// sortInt64s sorts a slice of int64 in increasing order.
func sortInt64s(a []int64) { slices.Sort(a) }
