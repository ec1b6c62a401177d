// File: appointmint/handlers/voice.go
package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"appointmint/config"
	"appointmint/models"
	"appointmint/services/assistant"
	"appointmint/utils"

	speech "cloud.google.com/go/speech/apiv1"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

const MaxAudioBytes = 5 * 1024 * 1024 // 5MB (conservative buffer)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, errors.New("invalid WAV header length")
	}

	var header waveHeader
	buf := bytes.NewReader(data)
	if err := binary.Read(buf, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, errors.New("not a WAV payload")
	}
	return &header, nil
}

// convertAudio normalizes arbitrary WAV input to 16kHz mono PCM, the format
// the recognizer is configured for.
func convertAudio(inputPath, outputPath string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in system PATH: %v", err)
	}

	cmd := exec.Command("ffmpeg",
		"-y",
		"-i", inputPath,
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %s", stderr.String())
	}
	return nil
}

// transcribe runs the normalized audio through Google speech-to-text.
func transcribe(ctx context.Context, audioData []byte, language string) (string, error) {
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(config.AppConfig.GoogleServiceAccountFile))
	if err != nil {
		return "", fmt.Errorf("failed to initialize speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   16000,
			LanguageCode:      language,
			AudioChannelCount: 1, // Mono
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audioData,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			transcript.WriteString(alt.Transcript + " ")
		}
	}
	return strings.TrimSpace(transcript.String()), nil
}

// VoiceChatHandler transcribes a base64 WAV clip and feeds the transcript
// through the conversation engine like any typed message.
func VoiceChatHandler(svc assistant.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req models.VoiceChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid voice payload", err.Error())
			return
		}

		audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "audio_base64 is not valid base64")
			return
		}
		if len(audio) > MaxAudioBytes {
			utils.JSONError(c, http.StatusBadRequest, "audio payload too large")
			return
		}
		if _, err := parseWaveHeader(audio); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid audio", err.Error())
			return
		}

		tempInput, err := os.CreateTemp("", "audio-*.wav")
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to create temp file")
			return
		}
		defer os.Remove(tempInput.Name())
		defer tempInput.Close()

		if _, err := tempInput.Write(audio); err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to save audio")
			return
		}

		tempOutput, err := os.CreateTemp("", "converted-*.wav")
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to create output temp file")
			return
		}
		defer os.Remove(tempOutput.Name())
		defer tempOutput.Close()

		if err := convertAudio(tempInput.Name(), tempOutput.Name()); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "audio conversion failed", err.Error())
			return
		}

		converted, err := os.ReadFile(tempOutput.Name())
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to read converted audio")
			return
		}

		language := c.DefaultQuery("language", "en-US")
		transcript, err := transcribe(c.Request.Context(), converted, language)
		if err != nil {
			logger.Error("transcription failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "transcription failed")
			return
		}
		if transcript == "" {
			c.JSON(http.StatusOK, &models.ChatResponse{
				Text: "Sorry, I couldn't hear that. Could you try again?",
			})
			return
		}

		resp, err := svc.HandleMessage(c.Request.Context(), models.ChatRequest{
			ConversationID: req.ConversationID,
			RestaurantID:   req.RestaurantID,
			Text:           transcript,
			SenderName:     req.SenderName,
			SenderPhone:    req.SenderPhone,
		})
		if err != nil {
			logger.Error("voice chat turn failed",
				zap.String("restaurant_id", req.RestaurantID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to process message")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"transcription": transcript,
			"response":      resp,
		})
	}
}
