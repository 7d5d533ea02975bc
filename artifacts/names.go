package artifacts

// Names of every test program in the catalog. Each program is built as a core
// module and, except for the nn suite, as a component.
const (
	APIProxy          Name = "api_proxy"
	APIProxyStreaming Name = "api_proxy_streaming"
	APIReactor        Name = "api_reactor"
	APIReadOnly       Name = "api_read_only"
	APITime           Name = "api_time"

	CLIArgs              Name = "cli_args"
	CLIDefaultClocks     Name = "cli_default_clocks"
	CLIDirectoryList     Name = "cli_directory_list"
	CLIEnv               Name = "cli_env"
	CLIExitDefault       Name = "cli_exit_default"
	CLIExitFailure       Name = "cli_exit_failure"
	CLIExitPanic         Name = "cli_exit_panic"
	CLIExitSuccess       Name = "cli_exit_success"
	CLIExportCABIRealloc Name = "cli_export_cabi_realloc"
	CLIFileAppend        Name = "cli_file_append"
	CLIFileDirSync       Name = "cli_file_dir_sync"
	CLIFileRead          Name = "cli_file_read"
	CLIHelloStdout       Name = "cli_hello_stdout"
	CLINoIPNameLookup    Name = "cli_no_ip_name_lookup"
	CLINoTCP             Name = "cli_no_tcp"
	CLINoUDP             Name = "cli_no_udp"
	CLISpliceStdin       Name = "cli_splice_stdin"
	CLIStdin             Name = "cli_stdin"
	CLIStdioWriteFlushes Name = "cli_stdio_write_flushes"

	HTTPOutboundRequestContentLength     Name = "http_outbound_request_content_length"
	HTTPOutboundRequestGet               Name = "http_outbound_request_get"
	HTTPOutboundRequestInvalidDNSName    Name = "http_outbound_request_invalid_dnsname"
	HTTPOutboundRequestInvalidHeader     Name = "http_outbound_request_invalid_header"
	HTTPOutboundRequestInvalidPort       Name = "http_outbound_request_invalid_port"
	HTTPOutboundRequestInvalidVersion    Name = "http_outbound_request_invalid_version"
	HTTPOutboundRequestLargePost         Name = "http_outbound_request_large_post"
	HTTPOutboundRequestPost              Name = "http_outbound_request_post"
	HTTPOutboundRequestPut               Name = "http_outbound_request_put"
	HTTPOutboundRequestResponseBuild     Name = "http_outbound_request_response_build"
	HTTPOutboundRequestUnknownMethod     Name = "http_outbound_request_unknown_method"
	HTTPOutboundRequestUnsupportedScheme Name = "http_outbound_request_unsupported_scheme"

	NNImageClassification      Name = "nn_image_classification"
	NNImageClassificationNamed Name = "nn_image_classification_named"

	Preview1BigRandomBuf                 Name = "preview1_big_random_buf"
	Preview1ClockTimeGet                 Name = "preview1_clock_time_get"
	Preview1ClosePreopen                 Name = "preview1_close_preopen"
	Preview1DanglingFD                   Name = "preview1_dangling_fd"
	Preview1DanglingSymlink              Name = "preview1_dangling_symlink"
	Preview1DirectorySeek                Name = "preview1_directory_seek"
	Preview1DirFDOpFailures              Name = "preview1_dir_fd_op_failures"
	Preview1FDAdvise                     Name = "preview1_fd_advise"
	Preview1FDFilestatGet                Name = "preview1_fd_filestat_get"
	Preview1FDFilestatSet                Name = "preview1_fd_filestat_set"
	Preview1FDFlagsSet                   Name = "preview1_fd_flags_set"
	Preview1FDReaddir                    Name = "preview1_fd_readdir"
	Preview1FileAllocate                 Name = "preview1_file_allocate"
	Preview1FilePreadPwrite              Name = "preview1_file_pread_pwrite"
	Preview1FileSeekTell                 Name = "preview1_file_seek_tell"
	Preview1FileTruncation               Name = "preview1_file_truncation"
	Preview1FileUnbufferedWrite          Name = "preview1_file_unbuffered_write"
	Preview1FileWrite                    Name = "preview1_file_write"
	Preview1InterestingPaths             Name = "preview1_interesting_paths"
	Preview1NofollowErrors               Name = "preview1_nofollow_errors"
	Preview1OverwritePreopen             Name = "preview1_overwrite_preopen"
	Preview1PathExists                   Name = "preview1_path_exists"
	Preview1PathFilestat                 Name = "preview1_path_filestat"
	Preview1PathLink                     Name = "preview1_path_link"
	Preview1PathOpenCreateExisting       Name = "preview1_path_open_create_existing"
	Preview1PathOpenDirfdNotDir          Name = "preview1_path_open_dirfd_not_dir"
	Preview1PathOpenMissing              Name = "preview1_path_open_missing"
	Preview1PathOpenNonblock             Name = "preview1_path_open_nonblock"
	Preview1PathOpenPreopen              Name = "preview1_path_open_preopen"
	Preview1PathOpenReadWrite            Name = "preview1_path_open_read_write"
	Preview1PathRename                   Name = "preview1_path_rename"
	Preview1PathRenameDirTrailingSlashes Name = "preview1_path_rename_dir_trailing_slashes"
	Preview1PathSymlinkTrailingSlashes   Name = "preview1_path_symlink_trailing_slashes"
	Preview1PollOneoffFiles              Name = "preview1_poll_oneoff_files"
	Preview1PollOneoffStdio              Name = "preview1_poll_oneoff_stdio"
	Preview1Readlink                     Name = "preview1_readlink"
	Preview1RegularFileIsatty            Name = "preview1_regular_file_isatty"
	Preview1RemoveDirectory              Name = "preview1_remove_directory"
	Preview1RemoveNonemptyDirectory      Name = "preview1_remove_nonempty_directory"
	Preview1Renumber                     Name = "preview1_renumber"
	Preview1SchedYield                   Name = "preview1_sched_yield"
	Preview1Stdio                        Name = "preview1_stdio"
	Preview1StdioIsatty                  Name = "preview1_stdio_isatty"
	Preview1StdioNotIsatty               Name = "preview1_stdio_not_isatty"
	Preview1SymlinkCreate                Name = "preview1_symlink_create"
	Preview1SymlinkFilestat              Name = "preview1_symlink_filestat"
	Preview1SymlinkLoop                  Name = "preview1_symlink_loop"
	Preview1UnicodeOutput                Name = "preview1_unicode_output"
	Preview1UnlinkFileTrailingSlashes    Name = "preview1_unlink_file_trailing_slashes"

	Preview2AdapterBadfd          Name = "preview2_adapter_badfd"
	Preview2IPNameLookup          Name = "preview2_ip_name_lookup"
	Preview2Random                Name = "preview2_random"
	Preview2Sleep                 Name = "preview2_sleep"
	Preview2StreamPollableCorrect Name = "preview2_stream_pollable_correct"
	Preview2StreamPollableTraps   Name = "preview2_stream_pollable_traps"
	Preview2TCPBind               Name = "preview2_tcp_bind"
	Preview2TCPConnect            Name = "preview2_tcp_connect"
	Preview2TCPSampleApplication  Name = "preview2_tcp_sample_application"
	Preview2TCPSockopts           Name = "preview2_tcp_sockopts"
	Preview2TCPStates             Name = "preview2_tcp_states"
	Preview2UDPBind               Name = "preview2_udp_bind"
	Preview2UDPConnect            Name = "preview2_udp_connect"
	Preview2UDPSampleApplication  Name = "preview2_udp_sample_application"
	Preview2UDPSockopts           Name = "preview2_udp_sockopts"
	Preview2UDPStates             Name = "preview2_udp_states"
)

var names = []Name{
	APIProxy,
	APIProxyStreaming,
	APIReactor,
	APIReadOnly,
	APITime,
	CLIArgs,
	CLIDefaultClocks,
	CLIDirectoryList,
	CLIEnv,
	CLIExitDefault,
	CLIExitFailure,
	CLIExitPanic,
	CLIExitSuccess,
	CLIExportCABIRealloc,
	CLIFileAppend,
	CLIFileDirSync,
	CLIFileRead,
	CLIHelloStdout,
	CLINoIPNameLookup,
	CLINoTCP,
	CLINoUDP,
	CLISpliceStdin,
	CLIStdin,
	CLIStdioWriteFlushes,
	HTTPOutboundRequestContentLength,
	HTTPOutboundRequestGet,
	HTTPOutboundRequestInvalidDNSName,
	HTTPOutboundRequestInvalidHeader,
	HTTPOutboundRequestInvalidPort,
	HTTPOutboundRequestInvalidVersion,
	HTTPOutboundRequestLargePost,
	HTTPOutboundRequestPost,
	HTTPOutboundRequestPut,
	HTTPOutboundRequestResponseBuild,
	HTTPOutboundRequestUnknownMethod,
	HTTPOutboundRequestUnsupportedScheme,
	NNImageClassification,
	NNImageClassificationNamed,
	Preview1BigRandomBuf,
	Preview1ClockTimeGet,
	Preview1ClosePreopen,
	Preview1DanglingFD,
	Preview1DanglingSymlink,
	Preview1DirectorySeek,
	Preview1DirFDOpFailures,
	Preview1FDAdvise,
	Preview1FDFilestatGet,
	Preview1FDFilestatSet,
	Preview1FDFlagsSet,
	Preview1FDReaddir,
	Preview1FileAllocate,
	Preview1FilePreadPwrite,
	Preview1FileSeekTell,
	Preview1FileTruncation,
	Preview1FileUnbufferedWrite,
	Preview1FileWrite,
	Preview1InterestingPaths,
	Preview1NofollowErrors,
	Preview1OverwritePreopen,
	Preview1PathExists,
	Preview1PathFilestat,
	Preview1PathLink,
	Preview1PathOpenCreateExisting,
	Preview1PathOpenDirfdNotDir,
	Preview1PathOpenMissing,
	Preview1PathOpenNonblock,
	Preview1PathOpenPreopen,
	Preview1PathOpenReadWrite,
	Preview1PathRename,
	Preview1PathRenameDirTrailingSlashes,
	Preview1PathSymlinkTrailingSlashes,
	Preview1PollOneoffFiles,
	Preview1PollOneoffStdio,
	Preview1Readlink,
	Preview1RegularFileIsatty,
	Preview1RemoveDirectory,
	Preview1RemoveNonemptyDirectory,
	Preview1Renumber,
	Preview1SchedYield,
	Preview1Stdio,
	Preview1StdioIsatty,
	Preview1StdioNotIsatty,
	Preview1SymlinkCreate,
	Preview1SymlinkFilestat,
	Preview1SymlinkLoop,
	Preview1UnicodeOutput,
	Preview1UnlinkFileTrailingSlashes,
	Preview2AdapterBadfd,
	Preview2IPNameLookup,
	Preview2Random,
	Preview2Sleep,
	Preview2StreamPollableCorrect,
	Preview2StreamPollableTraps,
	Preview2TCPBind,
	Preview2TCPConnect,
	Preview2TCPSampleApplication,
	Preview2TCPSockopts,
	Preview2TCPStates,
	Preview2UDPBind,
	Preview2UDPConnect,
	Preview2UDPSampleApplication,
	Preview2UDPSockopts,
	Preview2UDPStates,
}
