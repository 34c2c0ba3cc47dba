/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package wavecast is a multi-tenant SHOUTcast/ICY audio streaming server.

Server

Server is the main server object which runs one SHOUTcast listener on a
given host:port, routing every accepted connection to its Handler.

Using a WaitGroup a client can wait for the start and shutdown of the
server, the same way the teacher's DudelDu server did.

Station

Station is the frame engine behind one streamed path: a background
producer task pulls frames from a source.PlaylistChild tree and
publishes them onto a lazily-grown, ref-counted frame chain that every
attached listener walks independently and at its own pace.

internal/shoutcast implements the per-listener pacing and ICY wire
format on top of a Station; internal/source implements the polymorphic
source tree; internal/config turns a JSON configuration file into a set
of Stations and Servers.
*/
package wavecast
