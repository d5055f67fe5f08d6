package sinks

var (
	_ Sink = (*UDPSink)(nil)
	_ Sink = (*TCPClientSink)(nil)
	_ Sink = (*TCPListenerSink)(nil)
	_ Sink = (*HTTPSink)(nil)
	_ Sink = (*MQTTSink)(nil)
	_ Sink = (*DBSink)(nil)
	_ Sink = (*WSSink)(nil)
)
