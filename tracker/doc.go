/*
Package tracker contains the runtime of the tracker: the model holding the song
being edited, and the player that flattens the song into a timeline and drives
the synthesizer from it.

The Model and the Player live on different goroutines and never share memory.
The Model publishes every song revision to the Player through the Broker, and
the Player answers with status updates and alerts. The Player sends complete
register snapshots to the synthesizer, which is drained by Broker.RunSynth on a
goroutine of its own.

The Player advances a Clock once per tick. For every timeline step the clock
reaches, the ChannelStates compare the flattened Timeline against what each
channel is currently playing and emit ChannelDiffs, which are applied to the
register snapshot before it is sent.
*/
package tracker
