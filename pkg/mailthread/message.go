package mailthread

import "time"

// EmailMessage is one normalized record from an e-discovery export. Messages
// are immutable once parsed; threading metadata comes from the packed history
// column, not from visible mail headers.
type EmailMessage struct {
	ID               string    `json:"id"`
	MessageID        string    `json:"message_id"`
	InReplyTo        string    `json:"in_reply_to"` // empty means not a reply
	References       []string  `json:"references"`
	ThreadID         string    `json:"thread_id"` // empty excludes the message from grouping
	From             string    `json:"from"`
	To               []string  `json:"to"`
	CC               []string  `json:"cc"`
	BCC              []string  `json:"bcc"`
	Subject          string    `json:"subject"`
	DateSent         time.Time `json:"date_sent"`
	Custodian        string    `json:"custodian"`
	FileName         string    `json:"file_name"`
	FullText         string    `json:"full_text"`
	Confidentiality  string    `json:"confidentiality"`
	IsForward        bool      `json:"is_forward"`
	IsExternal       bool      `json:"is_external"`
	BegBates         string    `json:"beg_bates"`
	EndBates         string    `json:"end_bates"`
	FileType         string    `json:"file_type"`
	Hash             string    `json:"hash"`
	NativeLink       string    `json:"native_link"`
	Author           string    `json:"author"`
	Title            string    `json:"title"`
	DateCreated      time.Time `json:"date_created"`
	DateLastModified time.Time `json:"date_last_modified"`
}

// Row is one raw record from a load file, one field per fixed column name.
// All values are unparsed strings; optional columns stay empty when the
// source omits them.
type Row struct {
	BegBates           string
	EndBates           string
	BegAttach          string
	EndAttach          string
	Custodian          string
	DuplicateCustodian string
	From               string
	To                 string
	CC                 string
	BCC                string
	Subject            string
	DateSent           string
	FileName           string
	FileType           string
	FileExtension      string
	ESIType            string
	DeDuplicatedPath   string
	DateCreated        string
	DateLastModified   string
	Title              string
	Author             string
	Confidentiality    string
	Hash               string
	NativeLink         string
	FullText           string
	EndAttachLeft      string
	ColumnHistory      string
}
