package pacycle

import (
	"fmt"
	"net"

	"github.com/jfreymuth/pulse/proto"
	"go.uber.org/zap"
)

// normal PulseAudio volume (100%)
const maxVolume = 0x10000

type paController struct {
	logger *zap.SugaredLogger
	class  DeviceClass

	client *proto.Client
	conn   net.Conn
}

// NewController establishes a PulseAudio connection and returns a
// Controller for the given device class
func NewController(logger *zap.SugaredLogger, class DeviceClass) (Controller, error) {
	client, conn, err := proto.Connect("")
	if err != nil {
		logger.Warnw("Failed to establish PulseAudio connection", "error", err)
		return nil, fmt.Errorf("establish PulseAudio connection: %w", err)
	}

	request := proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString("pacycle"),
		},
	}
	reply := proto.SetClientNameReply{}

	if err := client.Request(&request, &reply); err != nil {
		return nil, err
	}

	c := &paController{
		logger: logger.Named("controller"),
		class:  class,
		client: client,
		conn:   conn,
	}

	c.logger.Debugw("Created PA controller instance", "class", class)

	return c, nil
}

func (c *paController) ListDevices() ([]Device, error) {
	devices := []Device{}

	if c.class == ClassOutput {
		request := proto.GetSinkInfoList{}
		reply := proto.GetSinkInfoListReply{}

		if err := c.client.Request(&request, &reply); err != nil {
			c.logger.Warnw("Failed to get sink list", "error", err)
			return nil, fmt.Errorf("get sink list: %w", err)
		}

		for _, sink := range reply {
			if sink == nil {
				continue
			}

			devices = append(devices, sinkDevice(sink))
		}

		return devices, nil
	}

	request := proto.GetSourceInfoList{}
	reply := proto.GetSourceInfoListReply{}

	if err := c.client.Request(&request, &reply); err != nil {
		c.logger.Warnw("Failed to get source list", "error", err)
		return nil, fmt.Errorf("get source list: %w", err)
	}

	for _, source := range reply {
		if source == nil {
			continue
		}

		devices = append(devices, sourceDevice(source))
	}

	return devices, nil
}

func (c *paController) DeviceByIndex(index uint32) (Device, error) {
	if c.class == ClassOutput {
		request := proto.GetSinkInfo{SinkIndex: index}
		reply := proto.GetSinkInfoReply{}

		if err := c.client.Request(&request, &reply); err != nil {
			return Device{}, fmt.Errorf("get sink info (#%d): %w", index, err)
		}

		return sinkDevice(&reply), nil
	}

	request := proto.GetSourceInfo{SourceIndex: index}
	reply := proto.GetSourceInfoReply{}

	if err := c.client.Request(&request, &reply); err != nil {
		return Device{}, fmt.Errorf("get source info (#%d): %w", index, err)
	}

	return sourceDevice(&reply), nil
}

func (c *paController) DefaultDevice() (Device, error) {
	if c.class == ClassOutput {
		request := proto.GetSinkInfo{SinkIndex: proto.Undefined}
		reply := proto.GetSinkInfoReply{}

		if err := c.client.Request(&request, &reply); err != nil {
			c.logger.Warnw("Failed to get default sink info", "error", err)
			return Device{}, fmt.Errorf("get default sink info: %w", err)
		}

		return sinkDevice(&reply), nil
	}

	request := proto.GetSourceInfo{SourceIndex: proto.Undefined}
	reply := proto.GetSourceInfoReply{}

	if err := c.client.Request(&request, &reply); err != nil {
		c.logger.Warnw("Failed to get default source info", "error", err)
		return Device{}, fmt.Errorf("get default source info: %w", err)
	}

	return sourceDevice(&reply), nil
}

func (c *paController) SetDefaultDevice(d Device) error {
	var request proto.RequestArgs

	if c.class == ClassOutput {
		request = &proto.SetDefaultSink{SinkName: d.Name}
	} else {
		request = &proto.SetDefaultSource{SourceName: d.Name}
	}

	if err := c.client.Request(request, nil); err != nil {
		c.logger.Warnw("Failed to set default device", "name", d.Name, "error", err)
		return fmt.Errorf("set default device: %w", err)
	}

	return nil
}

func (c *paController) SetMute(index uint32, mute bool) error {
	var request proto.RequestArgs

	if c.class == ClassOutput {
		request = &proto.SetSinkMute{
			SinkIndex: index,
			Mute:      mute,
		}
	} else {
		request = &proto.SetSourceMute{
			SourceIndex: index,
			Mute:        mute,
		}
	}

	if err := c.client.Request(request, nil); err != nil {
		c.logger.Warnw("Failed to set mute", "error", err)
		return fmt.Errorf("set mute: %w", err)
	}

	return nil
}

func (c *paController) SetVolume(d Device, volume float32) error {
	volumes := createChannelVolumes(d.Channels, volume)

	var request proto.RequestArgs

	if c.class == ClassOutput {
		request = &proto.SetSinkVolume{
			SinkIndex:      d.Index,
			ChannelVolumes: volumes,
		}
	} else {
		request = &proto.SetSourceVolume{
			SourceIndex:    d.Index,
			ChannelVolumes: volumes,
		}
	}

	if err := c.client.Request(request, nil); err != nil {
		c.logger.Warnw("Failed to set device volume", "error", err, "volume", volume)
		return fmt.Errorf("set device volume: %w", err)
	}

	// the volume write shouldn't unmute a muted device
	if d.Mute {
		return c.SetMute(d.Index, true)
	}

	return nil
}

func (c *paController) ListStreams() ([]Stream, error) {
	streams := []Stream{}

	if c.class == ClassOutput {
		request := proto.GetSinkInputInfoList{}
		reply := proto.GetSinkInputInfoListReply{}

		if err := c.client.Request(&request, &reply); err != nil {
			c.logger.Warnw("Failed to get sink input list", "error", err)
			return nil, fmt.Errorf("get sink input list: %w", err)
		}

		for _, info := range reply {
			if info == nil {
				continue
			}

			streams = append(streams, Stream{
				Index: info.SinkInputIndex,
				Name:  streamName(info.Properties, info.SinkInputIndex),
			})
		}

		return streams, nil
	}

	request := proto.GetSourceOutputInfoList{}
	reply := proto.GetSourceOutputInfoListReply{}

	if err := c.client.Request(&request, &reply); err != nil {
		c.logger.Warnw("Failed to get source output list", "error", err)
		return nil, fmt.Errorf("get source output list: %w", err)
	}

	for _, info := range reply {
		if info == nil {
			continue
		}

		streams = append(streams, Stream{
			Index: info.SourceOutpuIndex,
			Name:  streamName(info.Properties, info.SourceOutpuIndex),
		})
	}

	return streams, nil
}

func (c *paController) MoveStream(stream uint32, device uint32) error {
	var request proto.RequestArgs

	if c.class == ClassOutput {
		request = &proto.MoveSinkInput{
			SinkInputIndex: stream,
			DeviceIndex:    device,
		}
	} else {
		request = &proto.MoveSourceOutput{
			SourceOutputIndex: stream,
			DeviceIndex:       device,
		}
	}

	if err := c.client.Request(request, nil); err != nil {
		return fmt.Errorf("move stream (#%d): %w", stream, err)
	}

	return nil
}

func (c *paController) Release() error {
	if err := c.conn.Close(); err != nil {
		c.logger.Warnw("Failed to close PulseAudio connection", "error", err)
		return fmt.Errorf("close PulseAudio connection: %w", err)
	}

	c.logger.Debug("Released PA controller instance")

	return nil
}

func sinkDevice(info *proto.GetSinkInfoReply) Device {
	name := info.SinkName
	if name == "" {
		name = fmt.Sprintf("Sink %d", info.SinkIndex)
	}

	return Device{
		Index:       info.SinkIndex,
		Name:        name,
		Description: deviceDescription(info.Properties),
		Mute:        info.Mute,
		Volume:      parseChannelVolumes(info.ChannelVolumes),
		Channels:    info.Channels,
	}
}

func sourceDevice(info *proto.GetSourceInfoReply) Device {
	name := info.SourceName
	if name == "" {
		name = fmt.Sprintf("Source %d", info.SourceIndex)
	}

	return Device{
		Index:       info.SourceIndex,
		Name:        name,
		Description: deviceDescription(info.Properties),
		Mute:        info.Mute,
		Volume:      parseChannelVolumes(info.ChannelVolumes),
		Channels:    info.Channels,
	}
}

func deviceDescription(props proto.PropList) string {
	if props == nil {
		return ""
	}

	if descProp, ok := props["device.description"]; ok {
		return descProp.String()
	}

	return ""
}

func streamName(props proto.PropList, index uint32) string {
	if props != nil {
		if nameProp, ok := props["application.process.binary"]; ok {
			return nameProp.String()
		}
	}

	return fmt.Sprintf("stream %d", index)
}

func createChannelVolumes(channels byte, volume float32) []uint32 {
	volumes := make([]uint32, channels)

	for i := range volumes {
		volumes[i] = uint32(volume * maxVolume)
	}

	return volumes
}

func parseChannelVolumes(volumes []uint32) float32 {
	var level uint32

	for _, volume := range volumes {
		level += volume
	}

	if len(volumes) == 0 {
		return 0
	}

	return float32(level) / float32(len(volumes)) / float32(maxVolume)
}
